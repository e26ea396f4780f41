package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	csvOpenErrorTemplateConstant    = "unable to open csv dataset %s: %w"
	csvReadErrorTemplateConstant    = "unable to read csv dataset %s: %w"
	csvMissingHeaderMessageConstant = "csv dataset requires a header row"
)

// ErrMissingCSVHeader indicates a CSV dataset without a header row.
var ErrMissingCSVHeader = errors.New(csvMissingHeaderMessageConstant)

// CSVProvider loads datasets from comma-separated files whose first row names the columns.
type CSVProvider struct{}

// NewCSVProvider constructs a CSV-backed dataset provider.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// Load reads the CSV file at the provided path into an immutable Table.
func (provider *CSVProvider) Load(datasetPath string) (*Table, error) {
	datasetFile, openError := os.Open(datasetPath)
	if openError != nil {
		return nil, fmt.Errorf(csvOpenErrorTemplateConstant, datasetPath, openError)
	}
	defer datasetFile.Close()

	csvReader := csv.NewReader(datasetFile)
	records, readError := csvReader.ReadAll()
	if readError != nil {
		return nil, fmt.Errorf(csvReadErrorTemplateConstant, datasetPath, readError)
	}
	if len(records) == 0 {
		return nil, ErrMissingCSVHeader
	}

	headerRow := records[0]
	columns := make([]Column, len(headerRow))
	for columnPosition, columnName := range headerRow {
		columns[columnPosition] = Column{Name: strings.TrimSpace(columnName)}
	}

	for _, record := range records[1:] {
		for columnPosition := range columns {
			if columnPosition >= len(record) {
				columns[columnPosition].Values = append(columns[columnPosition].Values, nil)
				continue
			}
			columns[columnPosition].Values = append(columns[columnPosition].Values, convertCSVValue(record[columnPosition]))
		}
	}

	return NewTable(columns)
}

func convertCSVValue(rawValue string) any {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return nil
	}

	if integerValue, parseError := strconv.ParseInt(trimmedValue, 10, 64); parseError == nil {
		return integerValue
	}
	if floatValue, parseError := strconv.ParseFloat(trimmedValue, 64); parseError == nil {
		return floatValue
	}
	return trimmedValue
}
