package dataset

import (
	"errors"
	"fmt"
)

const (
	columnLengthMismatchTemplateConstant = "column %s has %d values but the table has %d rows"
	duplicateColumnNameTemplateConstant  = "duplicate column name %s"
	emptyTableMessageConstant            = "table requires at least one column"
)

// ErrEmptyTable indicates a table was constructed without any columns.
var ErrEmptyTable = errors.New(emptyTableMessageConstant)

// Geometry captures the shape type observed for a single feature.
type Geometry struct {
	ShapeType string
}

// Column pairs a column name with its observed values. A nil value represents a null cell.
type Column struct {
	Name   string
	Values []any
}

// Table is an immutable in-memory tabular dataset with ordered, name-indexed columns.
type Table struct {
	columns     []Column
	columnIndex map[string]int
	rowCount    int
}

// NewTable constructs a Table from ordered columns, validating name uniqueness and uniform length.
func NewTable(columns []Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyTable
	}

	rowCount := len(columns[0].Values)
	columnIndex := make(map[string]int, len(columns))
	duplicatedColumns := make([]Column, len(columns))

	for position, column := range columns {
		if _, alreadyIndexed := columnIndex[column.Name]; alreadyIndexed {
			return nil, fmt.Errorf(duplicateColumnNameTemplateConstant, column.Name)
		}
		if len(column.Values) != rowCount {
			return nil, fmt.Errorf(columnLengthMismatchTemplateConstant, column.Name, len(column.Values), rowCount)
		}

		duplicatedValues := make([]any, len(column.Values))
		copy(duplicatedValues, column.Values)
		duplicatedColumns[position] = Column{Name: column.Name, Values: duplicatedValues}
		columnIndex[column.Name] = position
	}

	return &Table{columns: duplicatedColumns, columnIndex: columnIndex, rowCount: rowCount}, nil
}

// RowCount reports the number of rows shared by every column.
func (table *Table) RowCount() int {
	return table.rowCount
}

// ColumnNames returns column names in their declared order.
func (table *Table) ColumnNames() []string {
	names := make([]string, len(table.columns))
	for position, column := range table.columns {
		names[position] = column.Name
	}
	return names
}

// HasColumn reports whether the table carries a column with the provided name.
func (table *Table) HasColumn(columnName string) bool {
	_, columnPresent := table.columnIndex[columnName]
	return columnPresent
}

// ColumnValues returns the values of the named column in row order.
func (table *Table) ColumnValues(columnName string) ([]any, bool) {
	position, columnPresent := table.columnIndex[columnName]
	if !columnPresent {
		return nil, false
	}

	duplicatedValues := make([]any, len(table.columns[position].Values))
	copy(duplicatedValues, table.columns[position].Values)
	return duplicatedValues, true
}
