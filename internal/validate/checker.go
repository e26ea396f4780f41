package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
)

const (
	nilDatasetMessageConstant          = "dataset must not be nil"
	nilDescriptorMessageConstant       = "descriptor must not be nil"
	noDescriptorColumnsMessageConstant = "descriptor declares no columns"

	missingColumnTemplateConstant        = "column %s declared by the descriptor is missing from the dataset"
	extraColumnTemplateConstant          = "column %s is present in the dataset but not declared by the descriptor"
	typeMismatchTemplateConstant         = "column %s declares type %s but value %s does not conform"
	nullValueTemplateConstant            = "column %s requires non-null values but row %d is null"
	enumerationViolationTemplateConstant = "column %s value %s is not in the declared enumeration"
	rangeViolationTemplateConstant       = "column %s value %s is outside the declared range"
	rowCountShortfallTemplateConstant    = "dataset has %d rows but the descriptor expects at least %d"
)

// ConfigError reports malformed checker inputs; data-quality issues never raise it.
type ConfigError struct {
	Message string
}

// Error describes the malformed input.
func (configError ConfigError) Error() string {
	return configError.Message
}

// Sentinel configuration errors raised for malformed inputs.
var (
	ErrNilDataset          = ConfigError{Message: nilDatasetMessageConstant}
	ErrNilDescriptor       = ConfigError{Message: nilDescriptorMessageConstant}
	ErrNoDescriptorColumns = ConfigError{Message: noDescriptorColumnsMessageConstant}
)

// CheckerOptions tunes constraint semantics left open by descriptor authors.
type CheckerOptions struct {
	// ExclusiveRange treats declared minimum and maximum bounds as exclusive.
	ExclusiveRange bool
	// FoldEnumerationCase matches enumeration values case-insensitively.
	FoldEnumerationCase bool
}

// Checker compares datasets against descriptors and produces validation reports.
type Checker struct {
	options CheckerOptions
}

// NewChecker constructs a Checker with the provided options.
func NewChecker(options CheckerOptions) *Checker {
	return &Checker{options: options}
}

// Validate runs every check against the dataset and returns the resulting report.
// The call fails only on malformed inputs; every data-quality deviation becomes
// a finding so one run surfaces all problems at once.
func (checker *Checker) Validate(table *dataset.Table, document *descriptor.Document) (Report, error) {
	if table == nil {
		return Report{}, ErrNilDataset
	}
	if document == nil {
		return Report{}, ErrNilDescriptor
	}
	if len(document.Schema.Columns) == 0 {
		return Report{}, ErrNoDescriptorColumns
	}

	findings := []Finding{}
	findings = append(findings, checker.checkDeclaredColumns(table, document)...)
	findings = append(findings, checker.checkExtraColumns(table, document)...)
	findings = append(findings, checker.checkRowCount(table, document)...)

	return Report{
		DatasetID: document.Metadata.DatasetID,
		Status:    statusForFindings(findings),
		Findings:  findings,
	}, nil
}

// checkDeclaredColumns walks the descriptor columns in declared order so reports
// stay stable regardless of the dataset's internal column ordering.
func (checker *Checker) checkDeclaredColumns(table *dataset.Table, document *descriptor.Document) []Finding {
	var findings []Finding

	for _, columnSpecification := range document.Schema.Columns {
		columnValues, columnPresent := table.ColumnValues(columnSpecification.Name)
		if !columnPresent {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Column:   columnSpecification.Name,
				Message:  fmt.Sprintf(missingColumnTemplateConstant, columnSpecification.Name),
			})
			continue
		}

		if typeFinding, typeViolated := checker.checkTypeConformance(columnSpecification, columnValues); typeViolated {
			findings = append(findings, typeFinding)
		}
		findings = append(findings, checker.checkConstraints(columnSpecification, columnValues)...)
	}

	return findings
}

// checkTypeConformance emits at most one finding per column to keep reports bounded.
func (checker *Checker) checkTypeConformance(columnSpecification descriptor.ColumnSpec, columnValues []any) (Finding, bool) {
	for _, columnValue := range columnValues {
		if columnValue == nil {
			continue
		}
		if valueConformsToType(columnValue, columnSpecification.Type) {
			continue
		}
		return Finding{
			Severity: SeverityError,
			Column:   columnSpecification.Name,
			Message:  fmt.Sprintf(typeMismatchTemplateConstant, columnSpecification.Name, string(columnSpecification.Type), formatValue(columnValue)),
		}, true
	}
	return Finding{}, false
}

func (checker *Checker) checkConstraints(columnSpecification descriptor.ColumnSpec, columnValues []any) []Finding {
	constraints := columnSpecification.Constraints
	if constraints == nil {
		return nil
	}

	var findings []Finding

	if constraints.NonNull {
		for rowIndex, columnValue := range columnValues {
			if columnValue == nil {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Column:   columnSpecification.Name,
					Message:  fmt.Sprintf(nullValueTemplateConstant, columnSpecification.Name, rowIndex),
				})
				break
			}
		}
	}

	if len(constraints.Enumeration) > 0 {
		if offendingValue, violationFound := checker.firstEnumerationViolation(constraints.Enumeration, columnValues); violationFound {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Column:   columnSpecification.Name,
				Message:  fmt.Sprintf(enumerationViolationTemplateConstant, columnSpecification.Name, offendingValue),
			})
		}
	}

	if constraints.Minimum != nil || constraints.Maximum != nil {
		if offendingValue, violationFound := checker.firstRangeViolation(constraints, columnValues); violationFound {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Column:   columnSpecification.Name,
				Message:  fmt.Sprintf(rangeViolationTemplateConstant, columnSpecification.Name, offendingValue),
			})
		}
	}

	return findings
}

func (checker *Checker) firstEnumerationViolation(enumeration []string, columnValues []any) (string, bool) {
	for _, columnValue := range columnValues {
		if columnValue == nil {
			continue
		}

		formattedValue := formatValue(columnValue)
		if !checker.enumerationContains(enumeration, formattedValue) {
			return formattedValue, true
		}
	}
	return "", false
}

func (checker *Checker) enumerationContains(enumeration []string, candidateValue string) bool {
	for _, enumeratedValue := range enumeration {
		if checker.options.FoldEnumerationCase {
			if strings.EqualFold(enumeratedValue, candidateValue) {
				return true
			}
			continue
		}
		if enumeratedValue == candidateValue {
			return true
		}
	}
	return false
}

// firstRangeViolation inspects numeric interpretations only; values that cannot
// be read as numbers are already covered by the type conformance check.
func (checker *Checker) firstRangeViolation(constraints *descriptor.Constraints, columnValues []any) (string, bool) {
	for _, columnValue := range columnValues {
		if columnValue == nil {
			continue
		}

		numericValue, numericAvailable := numericInterpretation(columnValue)
		if !numericAvailable {
			continue
		}

		if checker.rangeViolated(constraints, numericValue) {
			return formatValue(columnValue), true
		}
	}
	return "", false
}

func (checker *Checker) rangeViolated(constraints *descriptor.Constraints, numericValue float64) bool {
	if constraints.Minimum != nil {
		if checker.options.ExclusiveRange && numericValue <= *constraints.Minimum {
			return true
		}
		if !checker.options.ExclusiveRange && numericValue < *constraints.Minimum {
			return true
		}
	}
	if constraints.Maximum != nil {
		if checker.options.ExclusiveRange && numericValue >= *constraints.Maximum {
			return true
		}
		if !checker.options.ExclusiveRange && numericValue > *constraints.Maximum {
			return true
		}
	}
	return false
}

// checkExtraColumns reports undeclared dataset columns in lexical order so
// repeated runs yield bit-identical reports.
func (checker *Checker) checkExtraColumns(table *dataset.Table, document *descriptor.Document) []Finding {
	declaredColumns := make(map[string]struct{}, len(document.Schema.Columns))
	for _, columnSpecification := range document.Schema.Columns {
		declaredColumns[columnSpecification.Name] = struct{}{}
	}

	var extraColumnNames []string
	for _, columnName := range table.ColumnNames() {
		if _, columnDeclared := declaredColumns[columnName]; !columnDeclared {
			extraColumnNames = append(extraColumnNames, columnName)
		}
	}
	sort.Strings(extraColumnNames)

	findings := make([]Finding, 0, len(extraColumnNames))
	for _, columnName := range extraColumnNames {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Column:   columnName,
			Message:  fmt.Sprintf(extraColumnTemplateConstant, columnName),
		})
	}
	return findings
}

func (checker *Checker) checkRowCount(table *dataset.Table, document *descriptor.Document) []Finding {
	if document.Schema.MinimumRows <= 0 || table.RowCount() >= document.Schema.MinimumRows {
		return nil
	}
	return []Finding{{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(rowCountShortfallTemplateConstant, table.RowCount(), document.Schema.MinimumRows),
	}}
}

// valueConformsToType reports whether a non-null value can be interpreted as the
// declared type without loss.
func valueConformsToType(columnValue any, declaredType descriptor.FieldType) bool {
	switch declaredType {
	case descriptor.FieldTypeString:
		_, isGeometry := columnValue.(dataset.Geometry)
		return !isGeometry
	case descriptor.FieldTypeInteger:
		switch typedValue := columnValue.(type) {
		case int64:
			return true
		case float64:
			return typedValue == float64(int64(typedValue))
		case string:
			_, parseError := strconv.ParseInt(strings.TrimSpace(typedValue), 10, 64)
			return parseError == nil
		default:
			return false
		}
	case descriptor.FieldTypeFloat:
		switch typedValue := columnValue.(type) {
		case int64, float64:
			return true
		case string:
			_, parseError := strconv.ParseFloat(strings.TrimSpace(typedValue), 64)
			return parseError == nil
		default:
			return false
		}
	case descriptor.FieldTypeBoolean:
		switch typedValue := columnValue.(type) {
		case bool:
			return true
		case string:
			_, parseError := strconv.ParseBool(strings.TrimSpace(typedValue))
			return parseError == nil
		default:
			return false
		}
	case descriptor.FieldTypeGeometry:
		_, isGeometry := columnValue.(dataset.Geometry)
		return isGeometry
	default:
		return false
	}
}

// numericInterpretation resolves the numeric reading of a value when one exists.
func numericInterpretation(columnValue any) (float64, bool) {
	switch typedValue := columnValue.(type) {
	case int64:
		return float64(typedValue), true
	case float64:
		return typedValue, true
	case string:
		parsedValue, parseError := strconv.ParseFloat(strings.TrimSpace(typedValue), 64)
		if parseError != nil {
			return 0, false
		}
		return parsedValue, true
	default:
		return 0, false
	}
}

// formatValue renders a cell value for finding messages.
func formatValue(columnValue any) string {
	switch typedValue := columnValue.(type) {
	case string:
		return typedValue
	case int64:
		return strconv.FormatInt(typedValue, 10)
	case float64:
		return strconv.FormatFloat(typedValue, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(typedValue)
	case dataset.Geometry:
		return typedValue.ShapeType
	default:
		return fmt.Sprintf("%v", typedValue)
	}
}
