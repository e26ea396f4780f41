package dataset

import (
	"path/filepath"
	"strings"
)

const (
	csvExtensionConstant = ".csv"
)

// AutoProvider routes dataset loading by file extension: CSV files go to the
// CSV provider, everything else is treated as a shapefile.
type AutoProvider struct {
	shapefileProvider *ShapefileProvider
	csvProvider       *CSVProvider
}

// NewAutoProvider constructs an extension-routing dataset provider.
func NewAutoProvider() *AutoProvider {
	return &AutoProvider{
		shapefileProvider: NewShapefileProvider(),
		csvProvider:       NewCSVProvider(),
	}
}

// Load reads the dataset at the provided path using the matching provider.
func (provider *AutoProvider) Load(datasetPath string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(datasetPath), csvExtensionConstant) {
		return provider.csvProvider.Load(datasetPath)
	}
	return provider.shapefileProvider.Load(datasetPath)
}
