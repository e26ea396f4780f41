package main

import (
	"fmt"
	"os"

	"github.com/InnovativeInventor/automated-mggg-qa/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the mggg-qa command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
