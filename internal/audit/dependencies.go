package audit

import (
	"context"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/dataset"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/repos"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/validate"
)

// DescriptorLoader reads descriptor documents from disk.
type DescriptorLoader interface {
	LoadFile(descriptorPath string) (*descriptor.Document, error)
	LoadDirectory(directoryPath string) ([]*descriptor.Document, error)
}

// DatasetProvider loads an in-memory table from a dataset reference.
type DatasetProvider interface {
	Load(datasetPath string) (*dataset.Table, error)
}

// RepositoryLister enumerates an organization's data repositories.
type RepositoryLister interface {
	ListOrganizationRepositories(executionContext context.Context, organization string) ([]repos.StateRepository, error)
}

// RepositoryCloner materializes a data repository at a local path.
type RepositoryCloner interface {
	CloneRepository(executionContext context.Context, cloneURL string, destinationPath string) error
}

// ArchiveExpander extracts a zip archive and returns the extraction directory.
type ArchiveExpander func(archivePath string) (string, error)

// SchemaValidator compares a dataset against its descriptor.
type SchemaValidator interface {
	Validate(table *dataset.Table, document *descriptor.Document) (validate.Report, error)
}

// PopulationAuditor cross-checks dataset population figures against the census.
type PopulationAuditor interface {
	TotalPopulation(executionContext context.Context, table *dataset.Table, document *descriptor.Document) ([]validate.Finding, error)
	CountyPopulation(executionContext context.Context, table *dataset.Table, document *descriptor.Document) ([]validate.Finding, error)
}
