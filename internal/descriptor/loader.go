package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	descriptorReadErrorTemplateConstant      = "unable to read descriptor %s: %w"
	descriptorParseErrorTemplateConstant     = "unable to parse descriptor %s: %w"
	descriptorDirectoryErrorTemplateConstant = "unable to list descriptor directory %s: %w"
	yamlExtensionConstant                    = ".yaml"
	ymlExtensionConstant                     = ".yml"
	jsonExtensionConstant                    = ".json"

	missingDatasetIdentifierMessageConstant = "metadata.dataset_id is required"
	missingColumnsMessageConstant           = "schema.columns must declare at least one column"
	duplicateColumnTemplateConstant         = "schema.columns declares %s more than once"
	unknownColumnTypeTemplateConstant       = "column %s declares unknown type %q"
	missingColumnNameTemplateConstant       = "schema.columns[%d] is missing a name"
	invalidRangeTemplateConstant            = "column %s declares minimum %v greater than maximum %v"
	negativeMinimumRowsMessageConstant      = "schema.min_rows must not be negative"
)

// ConfigError reports a malformed descriptor rejected at load time.
type ConfigError struct {
	DescriptorPath string
	Message        string
}

// Error describes the descriptor defect.
func (configError ConfigError) Error() string {
	if len(configError.DescriptorPath) == 0 {
		return configError.Message
	}
	return fmt.Sprintf("%s: %s", configError.DescriptorPath, configError.Message)
}

// Loader reads and validates descriptor documents from YAML or JSON files.
type Loader struct{}

// NewLoader constructs a descriptor loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads a single descriptor document and validates it immediately.
func (loader *Loader) LoadFile(descriptorPath string) (*Document, error) {
	descriptorContent, readError := os.ReadFile(descriptorPath)
	if readError != nil {
		return nil, fmt.Errorf(descriptorReadErrorTemplateConstant, descriptorPath, readError)
	}

	var document Document
	switch strings.ToLower(filepath.Ext(descriptorPath)) {
	case jsonExtensionConstant:
		if parseError := json.Unmarshal(descriptorContent, &document); parseError != nil {
			return nil, fmt.Errorf(descriptorParseErrorTemplateConstant, descriptorPath, parseError)
		}
	default:
		if parseError := yaml.Unmarshal(descriptorContent, &document); parseError != nil {
			return nil, fmt.Errorf(descriptorParseErrorTemplateConstant, descriptorPath, parseError)
		}
	}

	if validationError := ValidateDocument(&document); validationError != nil {
		configError := validationError.(ConfigError)
		configError.DescriptorPath = descriptorPath
		return nil, configError
	}

	return &document, nil
}

// LoadDirectory reads every descriptor file in a directory in lexical order.
func (loader *Loader) LoadDirectory(directoryPath string) ([]*Document, error) {
	directoryEntries, listError := os.ReadDir(directoryPath)
	if listError != nil {
		return nil, fmt.Errorf(descriptorDirectoryErrorTemplateConstant, directoryPath, listError)
	}

	var descriptorPaths []string
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(directoryEntry.Name())) {
		case yamlExtensionConstant, ymlExtensionConstant, jsonExtensionConstant:
			descriptorPaths = append(descriptorPaths, filepath.Join(directoryPath, directoryEntry.Name()))
		}
	}
	sort.Strings(descriptorPaths)

	documents := make([]*Document, 0, len(descriptorPaths))
	for _, descriptorPath := range descriptorPaths {
		document, loadError := loader.LoadFile(descriptorPath)
		if loadError != nil {
			return nil, loadError
		}
		documents = append(documents, document)
	}

	return documents, nil
}

// ValidateDocument rejects malformed descriptors before any dataset is inspected.
func ValidateDocument(document *Document) error {
	if len(strings.TrimSpace(document.Metadata.DatasetID)) == 0 {
		return ConfigError{Message: missingDatasetIdentifierMessageConstant}
	}
	if len(document.Schema.Columns) == 0 {
		return ConfigError{Message: missingColumnsMessageConstant}
	}
	if document.Schema.MinimumRows < 0 {
		return ConfigError{Message: negativeMinimumRowsMessageConstant}
	}

	declaredColumns := make(map[string]struct{}, len(document.Schema.Columns))
	for columnPosition, columnSpecification := range document.Schema.Columns {
		if len(strings.TrimSpace(columnSpecification.Name)) == 0 {
			return ConfigError{Message: fmt.Sprintf(missingColumnNameTemplateConstant, columnPosition)}
		}
		if _, alreadyDeclared := declaredColumns[columnSpecification.Name]; alreadyDeclared {
			return ConfigError{Message: fmt.Sprintf(duplicateColumnTemplateConstant, columnSpecification.Name)}
		}
		declaredColumns[columnSpecification.Name] = struct{}{}

		if !KnownFieldType(columnSpecification.Type) {
			return ConfigError{Message: fmt.Sprintf(unknownColumnTypeTemplateConstant, columnSpecification.Name, string(columnSpecification.Type))}
		}

		constraints := columnSpecification.Constraints
		if constraints != nil && constraints.Minimum != nil && constraints.Maximum != nil && *constraints.Minimum > *constraints.Maximum {
			return ConfigError{Message: fmt.Sprintf(invalidRangeTemplateConstant, columnSpecification.Name, *constraints.Minimum, *constraints.Maximum)}
		}
	}

	return nil
}
