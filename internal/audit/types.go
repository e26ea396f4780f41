package audit

import "strconv"

// ReportFormat enumerates supported report renderings.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatText ReportFormat = "text"
	ReportFormatJSON ReportFormat = "json"
	ReportFormatCSV  ReportFormat = "csv"
)

// KnownReportFormat reports whether the provided format is supported.
func KnownReportFormat(format ReportFormat) bool {
	switch format {
	case ReportFormatText, ReportFormatJSON, ReportFormatCSV:
		return true
	default:
		return false
	}
}

// CommandOptions captures the configurable parameters for a full audit run.
type CommandOptions struct {
	DescriptorDirectory string
	WorkspaceDirectory  string
	Organization        string
	SkipCensusChecks    bool
	CensusAPIKey        string
	OutputFormat        ReportFormat
}

// ValidateOptions captures the parameters for validating a single dataset.
type ValidateOptions struct {
	DescriptorPath string
	DatasetPath    string
	OutputFormat   ReportFormat
}

// SummaryRow models one CSV summary line per audited dataset.
type SummaryRow struct {
	DatasetID    string
	Repository   string
	Status       string
	ErrorCount   int
	WarningCount int
}

// CSVRecord returns the row formatted for CSV encoding.
func (row SummaryRow) CSVRecord() []string {
	return []string{
		row.DatasetID,
		row.Repository,
		row.Status,
		strconv.Itoa(row.ErrorCount),
		strconv.Itoa(row.WarningCount),
	}
}
