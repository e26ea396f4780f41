package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	skipCensusFlagNameConstant      = "skip-census"
	skipCensusFlagShorthandConstant = "s"
	skipCensusFlagUsageConstant     = "Skip the census population cross-checks"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--skip-census"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--skip-census", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--skip-census", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--skip-census", "no"}, expectedValue: false, expectedChanged: true},
		{name: "ExplicitFalseUppercase", arguments: []string{"--skip-census", "FALSE"}, expectedValue: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var skipCensusValue bool
			AddToggleFlag(command.Flags(), &skipCensusValue, skipCensusFlagNameConstant, "", false, skipCensusFlagUsageConstant)

			normalizedArguments := NormalizeToggleArguments(testCase.arguments)
			parseError := command.ParseFlags(normalizedArguments)
			require.NoError(t, parseError)

			require.Equal(t, testCase.expectedValue, skipCensusValue)

			flag := command.Flags().Lookup(skipCensusFlagNameConstant)
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var skipCensusValue bool
	AddToggleFlag(command.Flags(), &skipCensusValue, skipCensusFlagNameConstant, "", false, skipCensusFlagUsageConstant)

	normalizedArguments := NormalizeToggleArguments([]string{"--skip-census", "maybe"})
	parseError := command.ParseFlags(normalizedArguments)
	require.Error(t, parseError)

	require.Equal(t, false, skipCensusValue)

	flag := command.Flags().Lookup(skipCensusFlagNameConstant)
	require.NotNil(t, flag)
	require.False(t, flag.Changed)
}

func TestNormalizeToggleArgumentsHandlesShorthand(t *testing.T) {
	command := &cobra.Command{}

	var skipCensusValue bool
	AddToggleFlag(command.Flags(), &skipCensusValue, skipCensusFlagNameConstant, skipCensusFlagShorthandConstant, false, skipCensusFlagUsageConstant)

	normalizedArguments := NormalizeToggleArguments([]string{"-s", "no"})
	parseError := command.ParseFlags(normalizedArguments)
	require.NoError(t, parseError)

	require.False(t, skipCensusValue)

	flag := command.Flags().Lookup(skipCensusFlagNameConstant)
	require.NotNil(t, flag)
	require.True(t, flag.Changed)
}
