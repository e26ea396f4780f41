package descriptor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/descriptor"
)

const (
	yamlDescriptorContentConstant = `metadata:
  dataset_id: ga-precincts-2020
  state_legal_name: State of Georgia
  state_abbreviation: GA
  state_fips_code: 13
  repo_name: GA-shapefiles
  archive: GA_precincts.zip
  file: GA_precincts.shp
  year_effective_start: 2020
  year_effective_end: 2020
schema:
  min_rows: 100
  columns:
    - name: GEOID
      type: string
      constraints:
        non_null: true
    - name: POP
      type: integer
      constraints:
        minimum: 0
    - name: geometry
      type: geometry
descriptors:
  county_fips: COUNTYFP
  total_population: POP
elections:
  parties:
    - party_descriptor_fec: D
      party_legal_name: Democratic Party
      years:
        2016:
          us_senate_absentee: SEN16D_A
          us_senate_no_absentee: SEN16D
    - party_descriptor_fec: R
      party_legal_name: Republican Party
      years:
        2016:
          us_senate_absentee: SEN16R_A
          us_senate_no_absentee: SEN16R
`
	jsonDescriptorContentConstant = `{
  "metadata": {"dataset_id": "ak-precincts-2018", "state_fips_code": 2},
  "schema": {"columns": [{"name": "DISTRICT", "type": "string"}]},
  "elections": {"parties": [{"party_descriptor_fec": "D", "party_legal_name": "Democratic Party", "years": {"2018": {"us_house_no_absentee": "USH18D"}}}]}
}`
)

func writeDescriptorFile(testInstance *testing.T, fileName string, fileContent string) string {
	testInstance.Helper()
	descriptorPath := filepath.Join(testInstance.TempDir(), fileName)
	require.NoError(testInstance, os.WriteFile(descriptorPath, []byte(fileContent), 0o644))
	return descriptorPath
}

func TestLoaderLoadFile(testInstance *testing.T) {
	testCases := []struct {
		name              string
		fileName          string
		fileContent       string
		expectedDatasetID string
		expectedColumns   []string
	}{
		{
			name:              "YAMLDescriptor",
			fileName:          "ga_precincts.yaml",
			fileContent:       yamlDescriptorContentConstant,
			expectedDatasetID: "ga-precincts-2020",
			expectedColumns:   []string{"GEOID", "POP", "geometry"},
		},
		{
			name:              "JSONDescriptor",
			fileName:          "ak_precincts.json",
			fileContent:       jsonDescriptorContentConstant,
			expectedDatasetID: "ak-precincts-2018",
			expectedColumns:   []string{"DISTRICT"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			descriptorPath := writeDescriptorFile(subtestInstance, testCase.fileName, testCase.fileContent)

			document, loadError := descriptor.NewLoader().LoadFile(descriptorPath)

			require.NoError(subtestInstance, loadError)
			require.Equal(subtestInstance, testCase.expectedDatasetID, document.Metadata.DatasetID)
			require.Equal(subtestInstance, testCase.expectedColumns, document.Schema.ColumnNames())
		})
	}
}

func TestLoaderLoadFileParsesConstraints(testInstance *testing.T) {
	descriptorPath := writeDescriptorFile(testInstance, "ga_precincts.yaml", yamlDescriptorContentConstant)

	document, loadError := descriptor.NewLoader().LoadFile(descriptorPath)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 13, document.Metadata.StateFIPSCode)
	require.Equal(testInstance, 100, document.Schema.MinimumRows)
	require.Equal(testInstance, "COUNTYFP", document.Descriptors.CountyFIPS)
	require.Equal(testInstance, "POP", document.Descriptors.TotalPopulation)

	geoidColumn := document.Schema.Columns[0]
	require.NotNil(testInstance, geoidColumn.Constraints)
	require.True(testInstance, geoidColumn.Constraints.NonNull)

	populationColumn := document.Schema.Columns[1]
	require.NotNil(testInstance, populationColumn.Constraints)
	require.NotNil(testInstance, populationColumn.Constraints.Minimum)
	require.Equal(testInstance, float64(0), *populationColumn.Constraints.Minimum)
}

func TestLoaderLoadFileParsesElectionDescriptors(testInstance *testing.T) {
	testInstance.Run("YAMLElections", func(subtestInstance *testing.T) {
		descriptorPath := writeDescriptorFile(subtestInstance, "ga_precincts.yaml", yamlDescriptorContentConstant)

		document, loadError := descriptor.NewLoader().LoadFile(descriptorPath)

		require.NoError(subtestInstance, loadError)
		require.NotNil(subtestInstance, document.Elections)
		require.Len(subtestInstance, document.Elections.Parties, 2)

		democraticParty := document.Elections.Parties[0]
		require.Equal(subtestInstance, "D", democraticParty.PartyDescriptorFEC)
		require.Equal(subtestInstance, "Democratic Party", democraticParty.PartyLegalName)
		require.Equal(subtestInstance, "SEN16D_A", democraticParty.Years[2016].USSenateAbsentee)
		require.Equal(subtestInstance, "SEN16D", democraticParty.Years[2016].USSenateNoAbsentee)

		republicanParty := document.Elections.Parties[1]
		require.Equal(subtestInstance, "R", republicanParty.PartyDescriptorFEC)
		require.Equal(subtestInstance, "SEN16R", republicanParty.Years[2016].USSenateNoAbsentee)
	})

	testInstance.Run("JSONElections", func(subtestInstance *testing.T) {
		descriptorPath := writeDescriptorFile(subtestInstance, "ak_precincts.json", jsonDescriptorContentConstant)

		document, loadError := descriptor.NewLoader().LoadFile(descriptorPath)

		require.NoError(subtestInstance, loadError)
		require.NotNil(subtestInstance, document.Elections)
		require.Len(subtestInstance, document.Elections.Parties, 1)
		require.Equal(subtestInstance, "USH18D", document.Elections.Parties[0].Years[2018].USHouseNoAbsentee)
	})

	testInstance.Run("ElectionsOmitted", func(subtestInstance *testing.T) {
		descriptorPath := writeDescriptorFile(subtestInstance, "minimal.yaml", "metadata:\n  dataset_id: minimal\nschema:\n  columns:\n    - name: GEOID\n      type: string\n")

		document, loadError := descriptor.NewLoader().LoadFile(descriptorPath)

		require.NoError(subtestInstance, loadError)
		require.Nil(subtestInstance, document.Elections)
	})
}

func TestLoaderLoadFileRejectsMalformedDescriptors(testInstance *testing.T) {
	testCases := []struct {
		name            string
		fileName        string
		fileContent     string
		expectedMessage string
	}{
		{
			name:            "MissingDatasetIdentifier",
			fileName:        "anonymous.yaml",
			fileContent:     "schema:\n  columns:\n    - name: GEOID\n      type: string\n",
			expectedMessage: "metadata.dataset_id is required",
		},
		{
			name:            "NoColumns",
			fileName:        "empty_schema.yaml",
			fileContent:     "metadata:\n  dataset_id: empty\nschema:\n  columns: []\n",
			expectedMessage: "schema.columns must declare at least one column",
		},
		{
			name:            "UnknownColumnType",
			fileName:        "bad_type.yaml",
			fileContent:     "metadata:\n  dataset_id: bad\nschema:\n  columns:\n    - name: GEOID\n      type: varchar\n",
			expectedMessage: `column GEOID declares unknown type "varchar"`,
		},
		{
			name:            "DuplicateColumn",
			fileName:        "dupe.yaml",
			fileContent:     "metadata:\n  dataset_id: dupe\nschema:\n  columns:\n    - name: GEOID\n      type: string\n    - name: GEOID\n      type: string\n",
			expectedMessage: "schema.columns declares GEOID more than once",
		},
		{
			name:            "IncoherentRange",
			fileName:        "range.yaml",
			fileContent:     "metadata:\n  dataset_id: range\nschema:\n  columns:\n    - name: POP\n      type: integer\n      constraints:\n        minimum: 10\n        maximum: 1\n",
			expectedMessage: "column POP declares minimum 10 greater than maximum 1",
		},
		{
			name:            "NegativeMinimumRows",
			fileName:        "rows.yaml",
			fileContent:     "metadata:\n  dataset_id: rows\nschema:\n  min_rows: -1\n  columns:\n    - name: GEOID\n      type: string\n",
			expectedMessage: "schema.min_rows must not be negative",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			descriptorPath := writeDescriptorFile(subtestInstance, testCase.fileName, testCase.fileContent)

			_, loadError := descriptor.NewLoader().LoadFile(descriptorPath)

			require.Error(subtestInstance, loadError)
			var configError descriptor.ConfigError
			require.ErrorAs(subtestInstance, loadError, &configError)
			require.Equal(subtestInstance, testCase.expectedMessage, configError.Message)
			require.Equal(subtestInstance, descriptorPath, configError.DescriptorPath)
		})
	}
}

func TestLoaderLoadDirectory(testInstance *testing.T) {
	directoryPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(directoryPath, "b_second.yaml"), []byte("metadata:\n  dataset_id: second\nschema:\n  columns:\n    - name: GEOID\n      type: string\n"), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(directoryPath, "a_first.yaml"), []byte("metadata:\n  dataset_id: first\nschema:\n  columns:\n    - name: GEOID\n      type: string\n"), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(directoryPath, "notes.txt"), []byte("ignored"), 0o644))

	documents, loadError := descriptor.NewLoader().LoadDirectory(directoryPath)

	require.NoError(testInstance, loadError)
	require.Len(testInstance, documents, 2)
	require.Equal(testInstance, "first", documents[0].Metadata.DatasetID)
	require.Equal(testInstance, "second", documents[1].Metadata.DatasetID)
}

func TestLoaderLoadDirectoryFailsFast(testInstance *testing.T) {
	directoryPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(directoryPath, "broken.yaml"), []byte("metadata:\n  dataset_id: ''\nschema:\n  columns:\n    - name: GEOID\n      type: string\n"), 0o644))

	_, loadError := descriptor.NewLoader().LoadDirectory(directoryPath)

	var configError descriptor.ConfigError
	require.ErrorAs(testInstance, loadError, &configError)
}
