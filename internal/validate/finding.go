package validate

// Severity classifies how a finding affects the overall report status.
type Severity string

// Supported finding severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Status reports the overall outcome of one validation run.
type Status string

// Supported report statuses.
const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Finding records a single deviation between a dataset and its descriptor.
// Column is empty for dataset-level findings such as row-count shortfalls.
type Finding struct {
	Severity Severity `json:"severity"`
	Column   string   `json:"column,omitempty"`
	Message  string   `json:"message"`
}

// Report is the complete outcome of validating one dataset against one descriptor.
type Report struct {
	DatasetID string    `json:"dataset_id"`
	Status    Status    `json:"status"`
	Findings  []Finding `json:"findings"`
}

// Failed reports whether the report carries at least one error-severity finding.
func (report Report) Failed() bool {
	return report.Status == StatusFail
}

// NewReport assembles a report, deriving the status from the findings.
func NewReport(datasetID string, findings []Finding) Report {
	return Report{
		DatasetID: datasetID,
		Status:    statusForFindings(findings),
		Findings:  findings,
	}
}

// statusForFindings derives the report status: fail if and only if an error finding exists.
func statusForFindings(findings []Finding) Status {
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			return StatusFail
		}
	}
	return StatusPass
}
