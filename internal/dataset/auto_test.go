package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
)

func TestAutoProviderLoad(testInstance *testing.T) {
	autoProvider := dataset.NewAutoProvider()

	testInstance.Run("CSVExtension", func(subtestInstance *testing.T) {
		datasetPath := writeCSVFile(subtestInstance, "GEOID\n13001\n")

		table, loadError := autoProvider.Load(datasetPath)

		require.NoError(subtestInstance, loadError)
		require.False(subtestInstance, table.HasColumn("geometry"))
	})

	testInstance.Run("ShapefileExtension", func(subtestInstance *testing.T) {
		shapefilePath := writeShapefile(subtestInstance)

		table, loadError := autoProvider.Load(shapefilePath)

		require.NoError(subtestInstance, loadError)
		require.True(subtestInstance, table.HasColumn("geometry"))
	})
}
