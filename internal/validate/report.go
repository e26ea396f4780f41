package validate

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	reportHeaderTemplateConstant        = "%s: %s\n"
	datasetLevelFindingTemplateConstant = "  [%s] %s\n"
	columnFindingTemplateConstant       = "  [%s] %s: %s\n"
	reportEncodingErrorTemplateConstant = "unable to encode report for %s: %w"
	jsonIndentConstant                  = "  "
	jsonPrefixConstant                  = ""
)

// WriteText renders the report for human consumption, printing every finding
// regardless of severity.
func (report Report) WriteText(destination io.Writer) error {
	if _, writeError := fmt.Fprintf(destination, reportHeaderTemplateConstant, report.DatasetID, report.Status); writeError != nil {
		return writeError
	}

	for _, finding := range report.Findings {
		var writeError error
		if len(finding.Column) == 0 {
			_, writeError = fmt.Fprintf(destination, datasetLevelFindingTemplateConstant, finding.Severity, finding.Message)
		} else {
			_, writeError = fmt.Fprintf(destination, columnFindingTemplateConstant, finding.Severity, finding.Column, finding.Message)
		}
		if writeError != nil {
			return writeError
		}
	}

	return nil
}

// WriteJSON renders the report as indented JSON for downstream tooling.
func (report Report) WriteJSON(destination io.Writer) error {
	encodedReport, encodingError := json.MarshalIndent(report, jsonPrefixConstant, jsonIndentConstant)
	if encodingError != nil {
		return fmt.Errorf(reportEncodingErrorTemplateConstant, report.DatasetID, encodingError)
	}

	encodedReport = append(encodedReport, '\n')
	_, writeError := destination.Write(encodedReport)
	return writeError
}
