package census

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultBaseURLConstant              = "https://api.census.gov"
	decennialEndpointTemplateConstant   = "%s/data/%d/dec/sf1"
	totalPopulationFieldConstant        = "P009001"
	getQueryParameterConstant           = "get"
	forQueryParameterConstant           = "for"
	inQueryParameterConstant            = "in"
	keyQueryParameterConstant           = "key"
	statePredicateTemplateConstant      = "state:%02d"
	countyPredicateTemplateConstant     = "county:%s"
	wildcardCountySelectorConstant      = "*"
	countyCodeSeparatorConstant         = ","
	requestErrorTemplateConstant        = "census request for %d/%02d failed: %w"
	responseStatusErrorTemplateConstant = "census request for %d/%02d returned status %d"
	responseDecodingErrorTemplate       = "census response for %d/%02d could not be decoded: %w"
	emptyResponseMessageConstant        = "census response carried no data rows"
	missingFieldMessageConstant         = "census response is missing the requested field"
	populationParseErrorTemplate        = "census population value %q could not be parsed: %w"
)

// ErrEmptyResponse indicates a census response without data rows.
var ErrEmptyResponse = errors.New(emptyResponseMessageConstant)

// ErrMissingField indicates a census response lacking the requested column.
var ErrMissingField = errors.New(missingFieldMessageConstant)

// HTTPDoer abstracts the HTTP client used to reach the census API.
type HTTPDoer interface {
	Do(request *http.Request) (*http.Response, error)
}

// Client fetches decennial population figures from the US Census API.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	apiKey     string
}

// NewClient constructs a census client. A nil HTTP client falls back to http.DefaultClient.
func NewClient(httpClient HTTPDoer, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, baseURL: defaultBaseURLConstant, apiKey: apiKey}
}

// NewClientWithBaseURL constructs a census client against a custom endpoint, used by tests.
func NewClientWithBaseURL(httpClient HTTPDoer, apiKey string, baseURL string) *Client {
	client := NewClient(httpClient, apiKey)
	client.baseURL = strings.TrimSuffix(baseURL, "/")
	return client
}

// StatePopulation returns the decennial total population for one state.
func (client *Client) StatePopulation(executionContext context.Context, censusYear int, stateFIPSCode int) (int64, error) {
	responseRows, fetchError := client.fetch(executionContext, censusYear, stateFIPSCode, nil)
	if fetchError != nil {
		return 0, fetchError
	}

	populationsByGeography, extractionError := extractPopulations(responseRows, statePopulationKeyColumn)
	if extractionError != nil {
		return 0, extractionError
	}

	var statePopulation int64
	for _, population := range populationsByGeography {
		statePopulation += population
	}
	return statePopulation, nil
}

// CountyPopulations returns the decennial total population per county FIPS code.
// An empty county list selects every county in the state.
func (client *Client) CountyPopulations(executionContext context.Context, censusYear int, stateFIPSCode int, countyFIPSCodes []string) (map[string]int64, error) {
	countySelector := wildcardCountySelectorConstant
	if len(countyFIPSCodes) > 0 {
		countySelector = strings.Join(countyFIPSCodes, countyCodeSeparatorConstant)
	}

	responseRows, fetchError := client.fetch(executionContext, censusYear, stateFIPSCode, &countySelector)
	if fetchError != nil {
		return nil, fetchError
	}

	return extractPopulations(responseRows, countyPopulationKeyColumn)
}

const (
	statePopulationKeyColumn  = "state"
	countyPopulationKeyColumn = "county"
)

func (client *Client) fetch(executionContext context.Context, censusYear int, stateFIPSCode int, countySelector *string) ([][]string, error) {
	endpointURL := fmt.Sprintf(decennialEndpointTemplateConstant, client.baseURL, censusYear)

	queryParameters := url.Values{}
	queryParameters.Set(getQueryParameterConstant, totalPopulationFieldConstant)
	if countySelector == nil {
		queryParameters.Set(forQueryParameterConstant, fmt.Sprintf(statePredicateTemplateConstant, stateFIPSCode))
	} else {
		queryParameters.Set(forQueryParameterConstant, fmt.Sprintf(countyPredicateTemplateConstant, *countySelector))
		queryParameters.Set(inQueryParameterConstant, fmt.Sprintf(statePredicateTemplateConstant, stateFIPSCode))
	}
	if len(client.apiKey) > 0 {
		queryParameters.Set(keyQueryParameterConstant, client.apiKey)
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, endpointURL+"?"+queryParameters.Encode(), nil)
	if requestError != nil {
		return nil, fmt.Errorf(requestErrorTemplateConstant, censusYear, stateFIPSCode, requestError)
	}

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return nil, fmt.Errorf(requestErrorTemplateConstant, censusYear, stateFIPSCode, responseError)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		io.Copy(io.Discard, response.Body)
		return nil, fmt.Errorf(responseStatusErrorTemplateConstant, censusYear, stateFIPSCode, response.StatusCode)
	}

	var responseRows [][]string
	if decodingError := json.NewDecoder(response.Body).Decode(&responseRows); decodingError != nil {
		return nil, fmt.Errorf(responseDecodingErrorTemplate, censusYear, stateFIPSCode, decodingError)
	}

	return responseRows, nil
}

// extractPopulations maps geography identifiers to parsed population counts
// using the header row the census API places first.
func extractPopulations(responseRows [][]string, keyColumnName string) (map[string]int64, error) {
	if len(responseRows) < 2 {
		return nil, ErrEmptyResponse
	}

	headerRow := responseRows[0]
	populationColumnIndex := -1
	keyColumnIndex := -1
	for columnIndex, columnName := range headerRow {
		switch columnName {
		case totalPopulationFieldConstant:
			populationColumnIndex = columnIndex
		case keyColumnName:
			keyColumnIndex = columnIndex
		}
	}
	if populationColumnIndex < 0 || keyColumnIndex < 0 {
		return nil, ErrMissingField
	}

	populationsByGeography := make(map[string]int64, len(responseRows)-1)
	for _, dataRow := range responseRows[1:] {
		if populationColumnIndex >= len(dataRow) || keyColumnIndex >= len(dataRow) {
			continue
		}

		populationValue, parseError := strconv.ParseInt(strings.TrimSpace(dataRow[populationColumnIndex]), 10, 64)
		if parseError != nil {
			return nil, fmt.Errorf(populationParseErrorTemplate, dataRow[populationColumnIndex], parseError)
		}
		populationsByGeography[dataRow[keyColumnIndex]] = populationValue
	}

	return populationsByGeography, nil
}

// DecennialYear truncates an effective year to the decennial census it falls under.
func DecennialYear(effectiveYear int) int {
	return (effectiveYear / 10) * 10
}
