package audit

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/census"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/validate"
)

const (
	descriptorLoaderRequiredMessageConstant = "descriptor loader not configured"
	datasetProviderRequiredMessageConstant  = "dataset provider not configured"
	schemaValidatorRequiredMessageConstant  = "schema validator not configured"
	noDescriptorsMessageConstant            = "no descriptors found"
	auditFindingsMessageConstant            = "audit completed with error findings"
	validationFailedMessageConstant         = "validation failed"
	unsupportedFormatTemplateConstant       = "unsupported report format: %s"
	auditFailureCountTemplateConstant       = "%w: %d of %d datasets failed"

	workspacePatternConstant            = "mggg-states"
	censusUnavailableTemplateConstant   = "census cross-check skipped: %s"
	auditingMessageConstant             = "auditing dataset"
	auditCompletedMessageConstant       = "audit completed"
	censusCheckFailedMessageConstant    = "census cross-check unavailable"
	repositoryDiscoveredMessageConstant = "discovered state repository"
	logFieldDatasetIdentifierConstant   = "dataset_id"
	logFieldStateConstant               = "state"
	logFieldRepositoryConstant          = "repository"
	logFieldAccountConstant             = "account"
	logFieldDatasetCountConstant        = "dataset_count"
	logFieldFailedCountConstant         = "failed_count"
	logFieldErrorConstant               = "error"

	csvSummaryHeaderDatasetConstant    = "dataset_id"
	csvSummaryHeaderRepositoryConstant = "repository"
	csvSummaryHeaderStatusConstant     = "status"
	csvSummaryHeaderErrorsConstant     = "errors"
	csvSummaryHeaderWarningsConstant   = "warnings"
)

// Sentinel errors surfaced by audit runs.
var (
	ErrDescriptorLoaderRequired = errors.New(descriptorLoaderRequiredMessageConstant)
	ErrDatasetProviderRequired  = errors.New(datasetProviderRequiredMessageConstant)
	ErrSchemaValidatorRequired  = errors.New(schemaValidatorRequiredMessageConstant)
	ErrNoDescriptors            = errors.New(noDescriptorsMessageConstant)
	ErrAuditFindings            = errors.New(auditFindingsMessageConstant)
	ErrValidationFailed         = errors.New(validationFailedMessageConstant)
)

// ServiceDependencies bundles the collaborators an audit Service requires.
type ServiceDependencies struct {
	DescriptorLoader  DescriptorLoader
	DatasetProvider   DatasetProvider
	RepositoryLister  RepositoryLister
	RepositoryCloner  RepositoryCloner
	ArchiveExpander   ArchiveExpander
	SchemaValidator   SchemaValidator
	PopulationAuditor PopulationAuditor
	Logger            *zap.Logger
	OutputWriter      io.Writer
}

// Service coordinates descriptor loading, repository acquisition, dataset
// validation, census cross-checks, and report emission.
type Service struct {
	descriptorLoader  DescriptorLoader
	datasetProvider   DatasetProvider
	repositoryLister  RepositoryLister
	repositoryCloner  RepositoryCloner
	archiveExpander   ArchiveExpander
	schemaValidator   SchemaValidator
	populationAuditor PopulationAuditor
	logger            *zap.Logger
	outputWriter      io.Writer
}

// NewService constructs a Service, validating required dependencies and
// defaulting the optional ones.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.DescriptorLoader == nil {
		return nil, ErrDescriptorLoaderRequired
	}
	if dependencies.DatasetProvider == nil {
		return nil, ErrDatasetProviderRequired
	}
	if dependencies.SchemaValidator == nil {
		return nil, ErrSchemaValidatorRequired
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputWriter := dependencies.OutputWriter
	if outputWriter == nil {
		outputWriter = os.Stdout
	}

	archiveExpander := dependencies.ArchiveExpander
	if archiveExpander == nil {
		archiveExpander = dataset.ExpandArchive
	}

	return &Service{
		descriptorLoader:  dependencies.DescriptorLoader,
		datasetProvider:   dependencies.DatasetProvider,
		repositoryLister:  dependencies.RepositoryLister,
		repositoryCloner:  dependencies.RepositoryCloner,
		archiveExpander:   archiveExpander,
		schemaValidator:   dependencies.SchemaValidator,
		populationAuditor: dependencies.PopulationAuditor,
		logger:            logger,
		outputWriter:      outputWriter,
	}, nil
}

// RunAudit audits every dataset with a descriptor in the configured directory.
// Data-quality findings never abort the run; the returned error reflects
// configuration faults or the presence of error findings across all reports.
func (service *Service) RunAudit(executionContext context.Context, options CommandOptions) error {
	outputFormat := options.OutputFormat
	if len(outputFormat) == 0 {
		outputFormat = ReportFormatText
	}
	if !KnownReportFormat(outputFormat) {
		return fmt.Errorf(unsupportedFormatTemplateConstant, outputFormat)
	}

	documents, loadError := service.descriptorLoader.LoadDirectory(options.DescriptorDirectory)
	if loadError != nil {
		return loadError
	}
	if len(documents) == 0 {
		return ErrNoDescriptors
	}

	workspaceDirectory, workspaceError := service.resolveWorkspace(options.WorkspaceDirectory)
	if workspaceError != nil {
		return workspaceError
	}

	cloneURLs, listingError := service.resolveCloneURLs(executionContext, options.Organization)
	if listingError != nil {
		return listingError
	}

	if cloneError := service.cloneAuditRepositories(executionContext, documents, cloneURLs, workspaceDirectory, options.Organization); cloneError != nil {
		return cloneError
	}

	reports := make([]validate.Report, 0, len(documents))
	for _, document := range documents {
		service.logger.Info(
			auditingMessageConstant,
			zap.String(logFieldDatasetIdentifierConstant, document.Metadata.DatasetID),
			zap.String(logFieldStateConstant, document.Metadata.StateLegalName),
			zap.String(logFieldRepositoryConstant, document.Metadata.RepositoryName),
		)

		report, auditError := service.auditDataset(executionContext, document, workspaceDirectory, options.SkipCensusChecks)
		if auditError != nil {
			return auditError
		}
		reports = append(reports, report)
	}

	if emissionError := service.emitReports(reports, outputFormat, documents); emissionError != nil {
		return emissionError
	}

	failedCount := 0
	for _, report := range reports {
		if report.Failed() {
			failedCount++
		}
	}

	service.logger.Info(
		auditCompletedMessageConstant,
		zap.Int(logFieldDatasetCountConstant, len(reports)),
		zap.Int(logFieldFailedCountConstant, failedCount),
	)

	if failedCount > 0 {
		return fmt.Errorf(auditFailureCountTemplateConstant, ErrAuditFindings, failedCount, len(reports))
	}
	return nil
}

// RunValidation validates a single descriptor and dataset pair.
func (service *Service) RunValidation(executionContext context.Context, options ValidateOptions) error {
	outputFormat := options.OutputFormat
	if len(outputFormat) == 0 {
		outputFormat = ReportFormatText
	}
	if !KnownReportFormat(outputFormat) {
		return fmt.Errorf(unsupportedFormatTemplateConstant, outputFormat)
	}

	document, loadError := service.descriptorLoader.LoadFile(options.DescriptorPath)
	if loadError != nil {
		return loadError
	}

	table, datasetError := service.datasetProvider.Load(options.DatasetPath)
	if datasetError != nil {
		return datasetError
	}

	report, validationError := service.schemaValidator.Validate(table, document)
	if validationError != nil {
		return validationError
	}

	if emissionError := service.emitReports([]validate.Report{report}, outputFormat, []*descriptor.Document{document}); emissionError != nil {
		return emissionError
	}

	if report.Failed() {
		return ErrValidationFailed
	}
	return nil
}

func (service *Service) auditDataset(executionContext context.Context, document *descriptor.Document, workspaceDirectory string, skipCensusChecks bool) (validate.Report, error) {
	shapefilePath, pathError := service.resolveShapefilePath(document, workspaceDirectory)
	if pathError != nil {
		return validate.Report{}, pathError
	}

	table, datasetError := service.datasetProvider.Load(shapefilePath)
	if datasetError != nil {
		return validate.Report{}, datasetError
	}

	report, validationError := service.schemaValidator.Validate(table, document)
	if validationError != nil {
		return validate.Report{}, validationError
	}

	findings := report.Findings
	findings = append(findings, service.censusFindings(executionContext, table, document, skipCensusChecks)...)

	return validate.NewReport(document.Metadata.DatasetID, findings), nil
}

// censusFindings layers population cross-checks onto a schema report. A census
// API failure degrades to a warning finding so one unreachable endpoint does
// not abort the remaining datasets.
func (service *Service) censusFindings(executionContext context.Context, table *dataset.Table, document *descriptor.Document, skipCensusChecks bool) []validate.Finding {
	findings := census.DataExistence(table, document)

	if skipCensusChecks || service.populationAuditor == nil {
		return findings
	}

	totalFindings, totalError := service.populationAuditor.TotalPopulation(executionContext, table, document)
	if totalError != nil {
		findings = append(findings, service.censusUnavailableFinding(document, totalError))
		return findings
	}
	findings = append(findings, totalFindings...)

	countyFindings, countyError := service.populationAuditor.CountyPopulation(executionContext, table, document)
	if countyError != nil {
		findings = append(findings, service.censusUnavailableFinding(document, countyError))
		return findings
	}
	findings = append(findings, countyFindings...)

	return findings
}

func (service *Service) censusUnavailableFinding(document *descriptor.Document, censusError error) validate.Finding {
	service.logger.Warn(
		censusCheckFailedMessageConstant,
		zap.String(logFieldDatasetIdentifierConstant, document.Metadata.DatasetID),
		zap.String(logFieldErrorConstant, censusError.Error()),
	)
	return validate.Finding{
		Severity: validate.SeverityWarning,
		Message:  fmt.Sprintf(censusUnavailableTemplateConstant, censusError),
	}
}

func (service *Service) resolveWorkspace(configuredWorkspace string) (string, error) {
	if len(configuredWorkspace) > 0 {
		return configuredWorkspace, os.MkdirAll(configuredWorkspace, 0o755)
	}
	return os.MkdirTemp("", workspacePatternConstant)
}

func (service *Service) resolveCloneURLs(executionContext context.Context, organization string) (map[string]string, error) {
	cloneURLs := map[string]string{}
	if service.repositoryLister == nil || len(organization) == 0 {
		return cloneURLs, nil
	}

	repositories, listingError := service.repositoryLister.ListOrganizationRepositories(executionContext, organization)
	if listingError != nil {
		return nil, listingError
	}

	for _, repository := range repositories {
		service.logger.Debug(
			repositoryDiscoveredMessageConstant,
			zap.String(logFieldStateConstant, repository.State),
			zap.String(logFieldRepositoryConstant, repository.Name),
			zap.String(logFieldAccountConstant, repository.Account),
		)
		cloneURLs[repository.Name] = repository.CloneURL
	}
	return cloneURLs, nil
}

// cloneAuditRepositories clones each referenced repository once even when
// several descriptors share it.
func (service *Service) cloneAuditRepositories(executionContext context.Context, documents []*descriptor.Document, cloneURLs map[string]string, workspaceDirectory string, organization string) error {
	if service.repositoryCloner == nil {
		return nil
	}

	clonedRepositories := make(map[string]struct{}, len(documents))
	for _, document := range documents {
		repositoryName := document.Metadata.RepositoryName
		if _, alreadyCloned := clonedRepositories[repositoryName]; alreadyCloned {
			continue
		}
		clonedRepositories[repositoryName] = struct{}{}

		cloneURL, cloneURLKnown := cloneURLs[repositoryName]
		if !cloneURLKnown {
			cloneURL = fmt.Sprintf("https://github.com/%s/%s.git", organization, repositoryName)
		}

		destinationPath := filepath.Join(workspaceDirectory, repositoryName)
		if cloneError := service.repositoryCloner.CloneRepository(executionContext, cloneURL, destinationPath); cloneError != nil {
			return cloneError
		}
	}

	return nil
}

func (service *Service) resolveShapefilePath(document *descriptor.Document, workspaceDirectory string) (string, error) {
	repositoryPath := filepath.Join(workspaceDirectory, document.Metadata.RepositoryName)

	datasetDirectory := repositoryPath
	if len(document.Metadata.ArchiveName) > 0 {
		archivePath := filepath.Join(repositoryPath, document.Metadata.ArchiveName)
		expandedDirectory, expansionError := service.archiveExpander(archivePath)
		if expansionError != nil {
			return "", expansionError
		}
		datasetDirectory = expandedDirectory
	}

	return filepath.Join(datasetDirectory, document.Metadata.FileName), nil
}

func (service *Service) emitReports(reports []validate.Report, outputFormat ReportFormat, documents []*descriptor.Document) error {
	switch outputFormat {
	case ReportFormatCSV:
		return service.writeSummaryCSV(reports, documents)
	case ReportFormatJSON:
		for _, report := range reports {
			if writeError := report.WriteJSON(service.outputWriter); writeError != nil {
				return writeError
			}
		}
		return nil
	default:
		for _, report := range reports {
			if writeError := report.WriteText(service.outputWriter); writeError != nil {
				return writeError
			}
		}
		return nil
	}
}

func (service *Service) writeSummaryCSV(reports []validate.Report, documents []*descriptor.Document) error {
	csvWriter := csv.NewWriter(service.outputWriter)

	header := []string{
		csvSummaryHeaderDatasetConstant,
		csvSummaryHeaderRepositoryConstant,
		csvSummaryHeaderStatusConstant,
		csvSummaryHeaderErrorsConstant,
		csvSummaryHeaderWarningsConstant,
	}
	if writeError := csvWriter.Write(header); writeError != nil {
		return writeError
	}

	for reportIndex, report := range reports {
		errorCount := 0
		warningCount := 0
		for _, finding := range report.Findings {
			switch finding.Severity {
			case validate.SeverityError:
				errorCount++
			case validate.SeverityWarning:
				warningCount++
			}
		}

		summaryRow := SummaryRow{
			DatasetID:    report.DatasetID,
			Repository:   documents[reportIndex].Metadata.RepositoryName,
			Status:       string(report.Status),
			ErrorCount:   errorCount,
			WarningCount: warningCount,
		}
		if writeError := csvWriter.Write(summaryRow.CSVRecord()); writeError != nil {
			return writeError
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
