package census

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/validate"
)

const (
	populationCountToleranceConstant = 1
	countyFIPSCodeWidthConstant      = 3
	unspecifiedCountyLabelConstant   = "Unspecified"

	totalPopulationMismatchTemplateConstant  = "total population %d differs from the %d census count %d by more than %d"
	countyPopulationZeroTemplateConstant     = "total population in %s, %s (FIPS=%s) is zero"
	countyPopulationMismatchTemplateConstant = "total population in %s, %s (FIPS=%s) differs from the census (%d != %d)"
	countyMissingFromCensusTemplateConstant  = "county FIPS %s is absent from the %d census response"
	unfilledColumnTemplateConstant           = "not all values in column %s are filled"

	comparingPopulationMessageConstant = "comparing census total population"
	checkingCountiesMessageConstant    = "checking county-level population counts"
	logFieldDatasetConstant            = "dataset_id"
	logFieldCensusYearConstant         = "census_year"
	logFieldCensusCountConstant        = "census_count"
	logFieldDatasetCountConstant       = "dataset_count"
)

// PopulationSource supplies decennial population figures for cross-checks.
type PopulationSource interface {
	StatePopulation(executionContext context.Context, censusYear int, stateFIPSCode int) (int64, error)
	CountyPopulations(executionContext context.Context, censusYear int, stateFIPSCode int, countyFIPSCodes []string) (map[string]int64, error)
}

// PopulationChecker cross-checks dataset population figures against the census.
type PopulationChecker struct {
	populationSource PopulationSource
	logger           *zap.Logger
}

// NewPopulationChecker constructs a checker backed by the provided population source.
func NewPopulationChecker(populationSource PopulationSource, logger *zap.Logger) *PopulationChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PopulationChecker{populationSource: populationSource, logger: logger}
}

// TotalPopulation compares the dataset's summed population column with the
// census state total, tolerating a difference of at most one person.
func (checker *PopulationChecker) TotalPopulation(executionContext context.Context, table *dataset.Table, document *descriptor.Document) ([]validate.Finding, error) {
	populationColumnName := document.Descriptors.TotalPopulation
	if len(populationColumnName) == 0 || !table.HasColumn(populationColumnName) {
		return nil, nil
	}

	censusYear := DecennialYear(document.Metadata.YearEffectiveEnd)
	censusPopulation, censusError := checker.populationSource.StatePopulation(executionContext, censusYear, document.Metadata.StateFIPSCode)
	if censusError != nil {
		return nil, censusError
	}

	datasetPopulation := sumColumn(table, populationColumnName)

	checker.logger.Info(
		comparingPopulationMessageConstant,
		zap.String(logFieldDatasetConstant, document.Metadata.DatasetID),
		zap.Int(logFieldCensusYearConstant, censusYear),
		zap.Int64(logFieldCensusCountConstant, censusPopulation),
		zap.Int64(logFieldDatasetCountConstant, datasetPopulation),
	)

	if absoluteDifference(datasetPopulation, censusPopulation) <= populationCountToleranceConstant {
		return nil, nil
	}

	return []validate.Finding{{
		Severity: validate.SeverityError,
		Column:   populationColumnName,
		Message:  fmt.Sprintf(totalPopulationMismatchTemplateConstant, datasetPopulation, censusYear, censusPopulation, populationCountToleranceConstant),
	}}, nil
}

// CountyPopulation aggregates dataset rows by county FIPS code and compares
// each county total with the census figure.
func (checker *PopulationChecker) CountyPopulation(executionContext context.Context, table *dataset.Table, document *descriptor.Document) ([]validate.Finding, error) {
	countyColumnName := document.Descriptors.CountyFIPS
	populationColumnName := document.Descriptors.TotalPopulation
	if len(countyColumnName) == 0 || len(populationColumnName) == 0 {
		return nil, nil
	}
	if !table.HasColumn(countyColumnName) || !table.HasColumn(populationColumnName) {
		return nil, nil
	}

	checker.logger.Info(
		checkingCountiesMessageConstant,
		zap.String(logFieldDatasetConstant, document.Metadata.DatasetID),
	)

	countyAggregates := aggregateCountyPopulations(table, countyColumnName, populationColumnName)
	countyFIPSCodes := make([]string, 0, len(countyAggregates))
	for countyFIPSCode := range countyAggregates {
		countyFIPSCodes = append(countyFIPSCodes, countyFIPSCode)
	}
	sort.Strings(countyFIPSCodes)

	censusYear := DecennialYear(document.Metadata.YearEffectiveEnd)
	censusPopulations, censusError := checker.populationSource.CountyPopulations(executionContext, censusYear, document.Metadata.StateFIPSCode, countyFIPSCodes)
	if censusError != nil {
		return nil, censusError
	}

	countyNames := countyLegalNames(table, countyColumnName, document.Descriptors.CountyLegalName)

	var findings []validate.Finding
	for _, countyFIPSCode := range countyFIPSCodes {
		countyPopulation := countyAggregates[countyFIPSCode]
		countyName := countyNames[countyFIPSCode]
		if len(countyName) == 0 {
			countyName = unspecifiedCountyLabelConstant
		}

		if countyPopulation == 0 {
			findings = append(findings, validate.Finding{
				Severity: validate.SeverityError,
				Column:   populationColumnName,
				Message:  fmt.Sprintf(countyPopulationZeroTemplateConstant, countyName, document.Metadata.StateAbbreviation, countyFIPSCode),
			})
		}

		censusPopulation, countyKnown := censusPopulations[countyFIPSCode]
		if !countyKnown {
			findings = append(findings, validate.Finding{
				Severity: validate.SeverityWarning,
				Column:   countyColumnName,
				Message:  fmt.Sprintf(countyMissingFromCensusTemplateConstant, countyFIPSCode, censusYear),
			})
			continue
		}

		if absoluteDifference(countyPopulation, censusPopulation) > populationCountToleranceConstant {
			findings = append(findings, validate.Finding{
				Severity: validate.SeverityError,
				Column:   populationColumnName,
				Message:  fmt.Sprintf(countyPopulationMismatchTemplateConstant, countyName, document.Metadata.StateAbbreviation, countyFIPSCode, countyPopulation, censusPopulation),
			})
		}
	}

	return findings, nil
}

// DataExistence warns when the well-known columns the descriptors name carry
// unfilled values. It is a pure check and needs no census access.
func DataExistence(table *dataset.Table, document *descriptor.Document) []validate.Finding {
	var expectedColumns []string
	if len(document.Descriptors.CountyFIPS) > 0 {
		expectedColumns = append(expectedColumns, document.Descriptors.CountyFIPS)
	}

	var findings []validate.Finding
	for _, columnName := range expectedColumns {
		columnValues, columnPresent := table.ColumnValues(columnName)
		if !columnPresent {
			continue
		}

		for _, columnValue := range columnValues {
			if columnValue == nil {
				findings = append(findings, validate.Finding{
					Severity: validate.SeverityWarning,
					Column:   columnName,
					Message:  fmt.Sprintf(unfilledColumnTemplateConstant, columnName),
				})
				break
			}
		}
	}

	return findings
}

func aggregateCountyPopulations(table *dataset.Table, countyColumnName string, populationColumnName string) map[string]int64 {
	countyValues, _ := table.ColumnValues(countyColumnName)
	populationValues, _ := table.ColumnValues(populationColumnName)

	countyAggregates := make(map[string]int64)
	for rowIndex := range countyValues {
		countyFIPSCode := normalizeCountyFIPS(countyValues[rowIndex])
		if len(countyFIPSCode) == 0 {
			continue
		}

		populationValue, numericAvailable := numericValue(populationValues[rowIndex])
		if !numericAvailable {
			countyAggregates[countyFIPSCode] += 0
			continue
		}
		countyAggregates[countyFIPSCode] += populationValue
	}
	return countyAggregates
}

func countyLegalNames(table *dataset.Table, countyColumnName string, countyNameColumnName string) map[string]string {
	namesByCounty := make(map[string]string)
	if len(countyNameColumnName) == 0 || !table.HasColumn(countyNameColumnName) {
		return namesByCounty
	}

	countyValues, _ := table.ColumnValues(countyColumnName)
	nameValues, _ := table.ColumnValues(countyNameColumnName)
	for rowIndex := range countyValues {
		countyFIPSCode := normalizeCountyFIPS(countyValues[rowIndex])
		if len(countyFIPSCode) == 0 {
			continue
		}
		if nameValue, isString := nameValues[rowIndex].(string); isString {
			namesByCounty[countyFIPSCode] = nameValue
		}
	}
	return namesByCounty
}

// normalizeCountyFIPS zero-fills county codes to the census's three-digit form.
func normalizeCountyFIPS(columnValue any) string {
	var rawCode string
	switch typedValue := columnValue.(type) {
	case string:
		rawCode = strings.TrimSpace(typedValue)
	case int64:
		rawCode = strconv.FormatInt(typedValue, 10)
	case float64:
		rawCode = strconv.FormatInt(int64(typedValue), 10)
	default:
		return ""
	}

	if len(rawCode) == 0 || len(rawCode) > countyFIPSCodeWidthConstant {
		return rawCode
	}
	return strings.Repeat("0", countyFIPSCodeWidthConstant-len(rawCode)) + rawCode
}

func sumColumn(table *dataset.Table, columnName string) int64 {
	columnValues, _ := table.ColumnValues(columnName)

	var columnSum int64
	for _, columnValue := range columnValues {
		if numericComponent, numericAvailable := numericValue(columnValue); numericAvailable {
			columnSum += numericComponent
		}
	}
	return columnSum
}

func numericValue(columnValue any) (int64, bool) {
	switch typedValue := columnValue.(type) {
	case int64:
		return typedValue, true
	case float64:
		return int64(typedValue), true
	case string:
		parsedValue, parseError := strconv.ParseFloat(strings.TrimSpace(typedValue), 64)
		if parseError != nil {
			return 0, false
		}
		return int64(parsedValue), true
	default:
		return 0, false
	}
}

func absoluteDifference(firstValue int64, secondValue int64) int64 {
	if firstValue > secondValue {
		return firstValue - secondValue
	}
	return secondValue - firstValue
}
