// Package audit drives the full QA workflow used by the mggg-qa CLI.
//
// It exposes CommandBuilder for wiring the audit and validate Cobra commands,
// Service for driving the workflow programmatically, and supporting
// abstractions for descriptor loading, dataset providers, repository
// acquisition, and census collaborators.
package audit
