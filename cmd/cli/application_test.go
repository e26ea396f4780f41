package cli_test

import (
	"bytes"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/InnovativeInventor/automated-mggg-qa/cmd/cli"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/audit"
)

const (
	embeddedDefaultLogLevelConstant            = "info"
	embeddedDefaultLogFormatConstant           = "structured"
	embeddedDefaultDescriptorDirectoryConstant = "descriptions"
	embeddedDefaultOrganizationConstant        = "mggg-states"
	embeddedDefaultOutputFormatConstant        = "text"
	auditConfigurationSectionKeyConstant       = "tools.audit"
	mapstructureTagNameConstant                = "mapstructure"
)

func TestEmbeddedDefaultConfigurationProvidesCommonSettings(t *testing.T) {
	configuration := decodeEmbeddedApplicationConfiguration(t)

	require.Equal(t, embeddedDefaultLogLevelConstant, configuration.Common.LogLevel)
	require.Equal(t, embeddedDefaultLogFormatConstant, configuration.Common.LogFormat)
}

func TestEmbeddedDefaultConfigurationProvidesAuditSettings(t *testing.T) {
	viperInstance := loadEmbeddedConfiguration(t)

	var auditConfiguration audit.CommandConfiguration
	decodeConfigurationSection(t, viperInstance.GetStringMap(auditConfigurationSectionKeyConstant), &auditConfiguration)

	require.Equal(t, embeddedDefaultDescriptorDirectoryConstant, auditConfiguration.DescriptorDirectory)
	require.Equal(t, embeddedDefaultOrganizationConstant, auditConfiguration.Organization)
	require.Equal(t, embeddedDefaultOutputFormatConstant, auditConfiguration.Output)
	require.False(t, auditConfiguration.SkipCensus)
	require.Empty(t, auditConfiguration.Workspace)
	require.Empty(t, auditConfiguration.CensusAPIKey)
}

func TestEmbeddedDefaultConfigurationReturnsIndependentCopies(t *testing.T) {
	firstCopy, firstType := cli.EmbeddedDefaultConfiguration()
	secondCopy, secondType := cli.EmbeddedDefaultConfiguration()

	require.Equal(t, firstType, secondType)
	require.Equal(t, firstCopy, secondCopy)

	firstCopy[0] = '#'
	require.NotEqual(t, firstCopy[0], secondCopy[0])
}

func loadEmbeddedConfiguration(testingInstance testing.TB) *viper.Viper {
	testingInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)

	readError := viperInstance.ReadConfig(bytes.NewReader(configurationData))
	require.NoError(testingInstance, readError)

	return viperInstance
}

func decodeEmbeddedApplicationConfiguration(testingInstance testing.TB) cli.ApplicationConfiguration {
	testingInstance.Helper()

	viperInstance := loadEmbeddedConfiguration(testingInstance)

	var configuration cli.ApplicationConfiguration
	unmarshalError := viperInstance.Unmarshal(&configuration)
	require.NoError(testingInstance, unmarshalError)

	return configuration
}

func decodeConfigurationSection(testingInstance testing.TB, section map[string]any, target any) {
	testingInstance.Helper()

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: mapstructureTagNameConstant, Result: target})
	require.NoError(testingInstance, decoderError)

	decodeError := decoder.Decode(section)
	require.NoError(testingInstance, decodeError)
}
