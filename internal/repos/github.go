package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/execshell"
)

const (
	apiSubcommandConstant                = "api"
	paginateFlagConstant                 = "--paginate"
	organizationReposEndpointTemplate    = "orgs/%s/repos"
	organizationFieldNameConstant        = "organization"
	requiredValueMessageConstant         = "value required"
	executorNotConfiguredMessageConstant = "github cli executor not configured"
	listRepositoriesOperationNameConstant = OperationName("ListOrganizationRepositories")
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
)

// OperationName describes a named GitHub CLI workflow supported by the lister.
type OperationName string

// ErrExecutorNotConfigured indicates the lister was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// OrganizationLister enumerates an organization's repositories via the GitHub CLI.
type OrganizationLister struct {
	executor GitHubCommandExecutor
}

// NewOrganizationLister constructs an organization lister.
func NewOrganizationLister(executor GitHubCommandExecutor) (*OrganizationLister, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &OrganizationLister{executor: executor}, nil
}

// ListOrganizationRepositories returns every repository in the organization
// using gh api with pagination.
func (lister *OrganizationLister) ListOrganizationRepositories(executionContext context.Context, organization string) ([]StateRepository, error) {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return nil, InvalidInputError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(organizationReposEndpointTemplate, organizationName),
			paginateFlagConstant,
		},
	}

	executionResult, executionError := lister.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listRepositoriesOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		Name     string `json:"name"`
		CloneURL string `json:"clone_url"`
	}
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response); decodingError != nil {
		return nil, ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: decodingError}
	}

	repositories := make([]StateRepository, 0, len(response))
	for _, repositoryEntry := range response {
		repositories = append(repositories, StateRepository{
			State:    StateFromRepositoryName(repositoryEntry.Name),
			Name:     repositoryEntry.Name,
			Account:  organizationName,
			CloneURL: repositoryEntry.CloneURL,
		})
	}

	return repositories, nil
}
