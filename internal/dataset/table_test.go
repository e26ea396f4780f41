package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
)

func TestNewTable(testInstance *testing.T) {
	testCases := []struct {
		name          string
		columns       []dataset.Column
		expectedError string
	}{
		{
			name: "UniformColumns",
			columns: []dataset.Column{
				{Name: "GEOID", Values: []any{"13001", "13003"}},
				{Name: "POP", Values: []any{int64(120), nil}},
			},
		},
		{
			name:          "NoColumns",
			columns:       nil,
			expectedError: "table requires at least one column",
		},
		{
			name: "DuplicateColumnName",
			columns: []dataset.Column{
				{Name: "GEOID", Values: []any{"13001"}},
				{Name: "GEOID", Values: []any{"13003"}},
			},
			expectedError: "duplicate column name GEOID",
		},
		{
			name: "RaggedColumns",
			columns: []dataset.Column{
				{Name: "GEOID", Values: []any{"13001", "13003"}},
				{Name: "POP", Values: []any{int64(120)}},
			},
			expectedError: "column POP has 1 values but the table has 2 rows",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			table, tableError := dataset.NewTable(testCase.columns)

			if len(testCase.expectedError) > 0 {
				require.EqualError(subtestInstance, tableError, testCase.expectedError)
				return
			}

			require.NoError(subtestInstance, tableError)
			require.Equal(subtestInstance, 2, table.RowCount())
			require.Equal(subtestInstance, []string{"GEOID", "POP"}, table.ColumnNames())
			require.True(subtestInstance, table.HasColumn("POP"))
			require.False(subtestInstance, table.HasColumn("NAME"))
		})
	}
}

func TestTableIsImmutable(testInstance *testing.T) {
	sourceValues := []any{"13001", "13003"}
	table, tableError := dataset.NewTable([]dataset.Column{{Name: "GEOID", Values: sourceValues}})
	require.NoError(testInstance, tableError)

	sourceValues[0] = "mutated"

	storedValues, columnPresent := table.ColumnValues("GEOID")
	require.True(testInstance, columnPresent)
	require.Equal(testInstance, []any{"13001", "13003"}, storedValues)

	storedValues[1] = "mutated"

	refreshedValues, _ := table.ColumnValues("GEOID")
	require.Equal(testInstance, []any{"13001", "13003"}, refreshedValues)
}

func TestTableColumnValuesMissingColumn(testInstance *testing.T) {
	table, tableError := dataset.NewTable([]dataset.Column{{Name: "GEOID", Values: []any{"13001"}}})
	require.NoError(testInstance, tableError)

	values, columnPresent := table.ColumnValues("POP")

	require.False(testInstance, columnPresent)
	require.Nil(testInstance, values)
}
