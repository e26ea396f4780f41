package audit

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/census"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/execshell"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/repos"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/utils"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/utils/flags"
	pathutils "github.com/InnovativeInventor/automated-mggg-qa/internal/utils/path"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/validate"
)

const (
	auditCommandNameConstant             = "audit"
	auditCommandShortDescriptionConstant = "Audit every dataset with a descriptor against its schema and the census"
	auditCommandLongDescriptionConstant  = "audit clones the data repositories referenced by the descriptor directory, expands their shapefile archives, validates each dataset against its descriptor, and cross-checks population counts with the US Census."

	validateCommandNameConstant             = "validate"
	validateCommandShortDescription         = "Validate one dataset against one descriptor"
	validateCommandLongDescription          = "validate loads a descriptor and a dataset from local paths, runs the schema checks, and prints the resulting report. The exit code is nonzero when the report fails or the inputs are malformed."
	validateCommandArgumentCountConstant    = 2
	validateDescriptorArgumentIndexConstant = 0
	validateDatasetArgumentIndexConstant    = 1

	flagDescriptorsName        = "descriptors"
	flagDescriptorsDescription = "Directory holding dataset descriptor files."
	flagWorkspaceName          = "workspace"
	flagWorkspaceDescription   = "Directory the audited repositories are cloned into (defaults to a temporary directory)."
	flagOrganizationName       = "organization"
	flagOrganizationDescription = "GitHub organization holding the audited data repositories."
	flagSkipCensusName         = "skip-census"
	flagSkipCensusDescription  = "Skip the census population cross-checks"
	flagOutputName             = "output"
	flagOutputDescription      = "Report format"

	censusAPIKeyEnvironmentVariableConstant = "CENSUS_API_KEY"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the persisted audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the audit cobra commands with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	DescriptorLoader      DescriptorLoader
	DatasetProvider       DatasetProvider
	RepositoryLister      RepositoryLister
	RepositoryCloner      RepositoryCloner
	SchemaValidator       SchemaValidator
	PopulationAuditor     PopulationAuditor
	CommandRunner         execshell.CommandRunner
	CommandEventsObserver execshell.CommandEventObserver

	skipCensusFlagValue bool
}

// reportFormatChoices lists the supported --output values for usage strings.
func reportFormatChoices() []string {
	return []string{string(ReportFormatText), string(ReportFormatJSON), string(ReportFormatCSV)}
}

// Build constructs the cobra command for full audit runs.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   auditCommandNameConstant,
		Short: auditCommandShortDescriptionConstant,
		Long:  auditCommandLongDescriptionConstant,
		RunE:  builder.runAudit,
	}

	command.Flags().String(flagDescriptorsName, "", flagDescriptorsDescription)
	command.Flags().String(flagWorkspaceName, "", flagWorkspaceDescription)
	command.Flags().String(flagOrganizationName, "", flagOrganizationDescription)
	flags.AddToggleFlag(command.Flags(), &builder.skipCensusFlagValue, flagSkipCensusName, "", false, flagSkipCensusDescription)
	command.Flags().String(flagOutputName, "", flags.FormatChoiceUsage(string(ReportFormatText), reportFormatChoices(), flagOutputDescription))

	return command, nil
}

// BuildValidateCommand constructs the cobra command validating a single dataset.
func (builder *CommandBuilder) BuildValidateCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   validateCommandNameConstant,
		Short: validateCommandShortDescription,
		Long:  validateCommandLongDescription,
		Args:  cobra.ExactArgs(validateCommandArgumentCountConstant),
		RunE:  builder.runValidate,
	}

	command.Flags().String(flagOutputName, "", flags.FormatChoiceUsage(string(ReportFormatText), reportFormatChoices(), flagOutputDescription))

	return command, nil
}

func (builder *CommandBuilder) runAudit(command *cobra.Command, arguments []string) error {
	options := builder.parseAuditOptions(command)

	service, serviceError := builder.resolveService(command, options.CensusAPIKey, options.SkipCensusChecks)
	if serviceError != nil {
		return serviceError
	}

	return service.RunAudit(command.Context(), options)
}

func (builder *CommandBuilder) runValidate(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	outputFlagValue, _ := command.Flags().GetString(flagOutputName)
	if len(outputFlagValue) == 0 {
		outputFlagValue = configuration.Output
	}

	options := ValidateOptions{
		DescriptorPath: arguments[validateDescriptorArgumentIndexConstant],
		DatasetPath:    arguments[validateDatasetArgumentIndexConstant],
		OutputFormat:   ReportFormat(outputFlagValue),
	}

	service, serviceError := builder.resolveService(command, configuration.CensusAPIKey, true)
	if serviceError != nil {
		return serviceError
	}

	return service.RunValidation(command.Context(), options)
}

func (builder *CommandBuilder) parseAuditOptions(command *cobra.Command) CommandOptions {
	configuration := builder.resolveConfiguration()

	descriptorsFlagValue, _ := command.Flags().GetString(flagDescriptorsName)
	workspaceFlagValue, _ := command.Flags().GetString(flagWorkspaceName)
	organizationFlagValue, _ := command.Flags().GetString(flagOrganizationName)
	outputFlagValue, _ := command.Flags().GetString(flagOutputName)

	options := CommandOptions{
		DescriptorDirectory: configuration.DescriptorDirectory,
		WorkspaceDirectory:  configuration.Workspace,
		Organization:        configuration.Organization,
		SkipCensusChecks:    configuration.SkipCensus,
		CensusAPIKey:        builder.resolveCensusAPIKey(configuration),
		OutputFormat:        ReportFormat(configuration.Output),
	}

	if len(descriptorsFlagValue) > 0 {
		options.DescriptorDirectory = descriptorsFlagValue
	}
	if len(workspaceFlagValue) > 0 {
		options.WorkspaceDirectory = workspaceFlagValue
	}
	if len(organizationFlagValue) > 0 {
		options.Organization = organizationFlagValue
	}
	if command.Flags().Changed(flagSkipCensusName) {
		options.SkipCensusChecks = builder.skipCensusFlagValue
	}
	if len(outputFlagValue) > 0 {
		options.OutputFormat = ReportFormat(outputFlagValue)
	}

	pathExpander := pathutils.NewHomeExpander()
	options.DescriptorDirectory = pathExpander.Expand(options.DescriptorDirectory)
	options.WorkspaceDirectory = pathExpander.Expand(options.WorkspaceDirectory)

	return options
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveCensusAPIKey(configuration CommandConfiguration) string {
	if len(configuration.CensusAPIKey) > 0 {
		return configuration.CensusAPIKey
	}
	return os.Getenv(censusAPIKeyEnvironmentVariableConstant)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveService(command *cobra.Command, censusAPIKey string, censusOptional bool) (*Service, error) {
	logger := builder.resolveLogger()

	descriptorLoader := builder.DescriptorLoader
	if descriptorLoader == nil {
		descriptorLoader = descriptor.NewLoader()
	}

	datasetProvider := builder.DatasetProvider
	if datasetProvider == nil {
		datasetProvider = dataset.NewAutoProvider()
	}

	schemaValidator := builder.SchemaValidator
	if schemaValidator == nil {
		schemaValidator = validate.NewChecker(validate.CheckerOptions{})
	}

	repositoryLister, repositoryCloner, resolutionError := builder.resolveRepositoryCollaborators(logger)
	if resolutionError != nil {
		return nil, resolutionError
	}

	populationAuditor := builder.PopulationAuditor
	if populationAuditor == nil && !censusOptional {
		populationAuditor = census.NewPopulationChecker(census.NewClient(nil, censusAPIKey), logger)
	}

	return NewService(ServiceDependencies{
		DescriptorLoader:  descriptorLoader,
		DatasetProvider:   datasetProvider,
		RepositoryLister:  repositoryLister,
		RepositoryCloner:  repositoryCloner,
		SchemaValidator:   schemaValidator,
		PopulationAuditor: populationAuditor,
		Logger:            logger,
		OutputWriter:      utils.NewFlushingWriter(command.OutOrStdout()),
	})
}

func (builder *CommandBuilder) resolveRepositoryCollaborators(logger *zap.Logger) (RepositoryLister, RepositoryCloner, error) {
	if builder.RepositoryLister != nil && builder.RepositoryCloner != nil {
		return builder.RepositoryLister, builder.RepositoryCloner, nil
	}

	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, commandRunner, builder.CommandEventsObserver)
	if executorError != nil {
		return nil, nil, executorError
	}

	repositoryLister := builder.RepositoryLister
	if repositoryLister == nil {
		lister, listerError := repos.NewOrganizationLister(shellExecutor)
		if listerError != nil {
			return nil, nil, listerError
		}
		repositoryLister = lister
	}

	repositoryCloner := builder.RepositoryCloner
	if repositoryCloner == nil {
		cloner, clonerError := repos.NewCloner(shellExecutor)
		if clonerError != nil {
			return nil, nil, clonerError
		}
		repositoryCloner = cloner
	}

	return repositoryLister, repositoryCloner, nil
}
