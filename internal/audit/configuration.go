package audit

import "strings"

const (
	defaultDescriptorDirectoryConstant = "descriptions"
	defaultOrganizationConstant        = "mggg-states"
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	DescriptorDirectory string `mapstructure:"descriptors"`
	Workspace           string `mapstructure:"workspace"`
	Organization        string `mapstructure:"organization"`
	SkipCensus          bool   `mapstructure:"skip_census"`
	Output              string `mapstructure:"output"`
	CensusAPIKey        string `mapstructure:"census_api_key"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		DescriptorDirectory: defaultDescriptorDirectoryConstant,
		Organization:        defaultOrganizationConstant,
		Output:              string(ReportFormatText),
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.DescriptorDirectory = strings.TrimSpace(configuration.DescriptorDirectory)
	if len(sanitized.DescriptorDirectory) == 0 {
		sanitized.DescriptorDirectory = defaultDescriptorDirectoryConstant
	}

	sanitized.Workspace = strings.TrimSpace(configuration.Workspace)

	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	if len(sanitized.Organization) == 0 {
		sanitized.Organization = defaultOrganizationConstant
	}

	sanitized.Output = strings.TrimSpace(configuration.Output)
	if len(sanitized.Output) == 0 {
		sanitized.Output = string(ReportFormatText)
	}

	sanitized.CensusAPIKey = strings.TrimSpace(configuration.CensusAPIKey)

	return sanitized
}
