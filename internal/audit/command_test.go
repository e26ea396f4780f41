package audit_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/audit"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/validate"
)

// buildFlatAuditDocument references the shapefile directly, without an archive.
func buildFlatAuditDocument() *descriptor.Document {
	document := buildAuditDocument()
	document.Metadata.ArchiveName = ""
	return document
}

func buildTestCommandBuilder(testInstance *testing.T, descriptorLoader *stubDescriptorLoader) *audit.CommandBuilder {
	testInstance.Helper()
	return &audit.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.NewNop()
		},
		ConfigurationProvider: func() audit.CommandConfiguration {
			return audit.DefaultCommandConfiguration()
		},
		DescriptorLoader:  descriptorLoader,
		DatasetProvider:   &stubDatasetProvider{table: buildAuditTable(testInstance)},
		RepositoryLister:  &stubRepositoryLister{},
		RepositoryCloner:  &stubRepositoryCloner{},
		SchemaValidator:   &stubSchemaValidator{report: validate.Report{Status: validate.StatusPass}},
		PopulationAuditor: &stubPopulationAuditor{},
	}
}

func TestAuditCommandFlagOverrides(testInstance *testing.T) {
	descriptorLoader := &stubDescriptorLoader{documents: []*descriptor.Document{buildFlatAuditDocument()}}
	builder := buildTestCommandBuilder(testInstance, descriptorLoader)

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	descriptorDirectory := filepath.Join(testInstance.TempDir(), "custom-descriptions")
	workspaceDirectory := testInstance.TempDir()

	var commandOutput bytes.Buffer
	command.SetOut(&commandOutput)
	command.SetContext(context.Background())
	command.SetArgs([]string{
		"--descriptors", descriptorDirectory,
		"--workspace", workspaceDirectory,
		"--skip-census",
	})

	executionError := command.Execute()

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{descriptorDirectory}, descriptorLoader.observedPaths)
	require.Contains(testInstance, commandOutput.String(), "ga-precincts-2020: pass")
}

func TestAuditCommandUsesConfigurationDefaults(testInstance *testing.T) {
	descriptorLoader := &stubDescriptorLoader{documents: []*descriptor.Document{buildFlatAuditDocument()}}
	builder := buildTestCommandBuilder(testInstance, descriptorLoader)
	builder.ConfigurationProvider = func() audit.CommandConfiguration {
		return audit.CommandConfiguration{
			DescriptorDirectory: "configured-descriptions",
			Workspace:           testInstance.TempDir(),
			Organization:        auditOrganizationNameConstant,
			SkipCensus:          true,
			Output:              "text",
		}
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetContext(context.Background())
	command.SetArgs([]string{})

	executionError := command.Execute()

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"configured-descriptions"}, descriptorLoader.observedPaths)
}

func TestValidateCommand(testInstance *testing.T) {
	descriptorLoader := &stubDescriptorLoader{documents: []*descriptor.Document{buildFlatAuditDocument()}}
	builder := buildTestCommandBuilder(testInstance, descriptorLoader)

	command, buildError := builder.BuildValidateCommand()
	require.NoError(testInstance, buildError)

	var commandOutput bytes.Buffer
	command.SetOut(&commandOutput)
	command.SetContext(context.Background())
	command.SetArgs([]string{"descriptions/ga_precincts.yaml", "GA_precincts.shp"})

	executionError := command.Execute()

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"descriptions/ga_precincts.yaml"}, descriptorLoader.observedPaths)
	require.Contains(testInstance, commandOutput.String(), "ga-precincts-2020: pass")
}

func TestValidateCommandRequiresTwoArguments(testInstance *testing.T) {
	builder := buildTestCommandBuilder(testInstance, &stubDescriptorLoader{documents: []*descriptor.Document{buildFlatAuditDocument()}})

	command, buildError := builder.BuildValidateCommand()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"descriptions/ga_precincts.yaml"})

	executionError := command.Execute()

	require.Error(testInstance, executionError)
}
