package descriptor

// FieldType enumerates the column type tags a descriptor may declare.
type FieldType string

// Supported descriptor column type tags.
const (
	FieldTypeString   FieldType = "string"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeFloat    FieldType = "float"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeGeometry FieldType = "geometry"
)

// KnownFieldType reports whether the provided tag names a supported column type.
func KnownFieldType(fieldType FieldType) bool {
	switch fieldType {
	case FieldTypeString, FieldTypeInteger, FieldTypeFloat, FieldTypeBoolean, FieldTypeGeometry:
		return true
	default:
		return false
	}
}

// Metadata identifies the dataset and the repository artifacts holding it.
type Metadata struct {
	DatasetID          string `yaml:"dataset_id" json:"dataset_id"`
	StateLegalName     string `yaml:"state_legal_name" json:"state_legal_name"`
	StateAbbreviation  string `yaml:"state_abbreviation" json:"state_abbreviation"`
	StateFIPSCode      int    `yaml:"state_fips_code" json:"state_fips_code"`
	RepositoryName     string `yaml:"repo_name" json:"repo_name"`
	ArchiveName        string `yaml:"archive" json:"archive"`
	FileName           string `yaml:"file" json:"file"`
	YearEffectiveStart int    `yaml:"year_effective_start" json:"year_effective_start"`
	YearEffectiveEnd   int    `yaml:"year_effective_end" json:"year_effective_end"`
}

// Constraints captures optional per-column value rules.
type Constraints struct {
	NonNull     bool     `yaml:"non_null" json:"non_null"`
	Enumeration []string `yaml:"enumeration,omitempty" json:"enumeration,omitempty"`
	Minimum     *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum     *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
}

// ColumnSpec declares one expected dataset column.
type ColumnSpec struct {
	Name        string       `yaml:"name" json:"name"`
	Type        FieldType    `yaml:"type" json:"type"`
	Constraints *Constraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Schema declares the expected dataset shape.
type Schema struct {
	Columns     []ColumnSpec `yaml:"columns" json:"columns"`
	MinimumRows int          `yaml:"min_rows" json:"min_rows"`
}

// WellKnownColumns names the dataset columns the population checks rely on.
type WellKnownColumns struct {
	StateFIPS       string `yaml:"state_fips,omitempty" json:"state_fips,omitempty"`
	CountyFIPS      string `yaml:"county_fips,omitempty" json:"county_fips,omitempty"`
	CountyLegalName string `yaml:"county_legal_name,omitempty" json:"county_legal_name,omitempty"`
	TotalPopulation string `yaml:"total_population,omitempty" json:"total_population,omitempty"`
}

// ElectionYearColumns names the vote-count columns recorded for one election year.
type ElectionYearColumns struct {
	USHouseAbsentee      string `yaml:"us_house_absentee,omitempty" json:"us_house_absentee,omitempty"`
	USHouseNoAbsentee    string `yaml:"us_house_no_absentee,omitempty" json:"us_house_no_absentee,omitempty"`
	USSenateAbsentee     string `yaml:"us_senate_absentee,omitempty" json:"us_senate_absentee,omitempty"`
	USSenateNoAbsentee   string `yaml:"us_senate_no_absentee,omitempty" json:"us_senate_no_absentee,omitempty"`
	USPresidentAbsentee  string `yaml:"us_president_absentee,omitempty" json:"us_president_absentee,omitempty"`
	USPresidentNoAbsentee string `yaml:"us_president_no_absentee,omitempty" json:"us_president_no_absentee,omitempty"`
}

// PartyDescriptor associates a political party with its per-year vote columns.
type PartyDescriptor struct {
	PartyDescriptorFEC string                      `yaml:"party_descriptor_fec" json:"party_descriptor_fec"`
	PartyLegalName     string                      `yaml:"party_legal_name" json:"party_legal_name"`
	Years              map[int]ElectionYearColumns `yaml:"years,omitempty" json:"years,omitempty"`
}

// Elections groups the party descriptors declared for a dataset.
type Elections struct {
	Parties []PartyDescriptor `yaml:"parties,omitempty" json:"parties,omitempty"`
}

// Document is one complete, externally authored dataset descriptor.
type Document struct {
	Metadata    Metadata         `yaml:"metadata" json:"metadata"`
	Schema      Schema           `yaml:"schema" json:"schema"`
	Descriptors WellKnownColumns `yaml:"descriptors" json:"descriptors"`
	Elections   *Elections       `yaml:"elections,omitempty" json:"elections,omitempty"`
}

// ColumnNames returns the declared column names in descriptor order.
func (schema Schema) ColumnNames() []string {
	names := make([]string, len(schema.Columns))
	for position, column := range schema.Columns {
		names[position] = column.Name
	}
	return names
}
