package repos_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/execshell"
	"github.com/InnovativeInventor/automated-mggg-qa/internal/repos"
)

type stubGitExecutor struct {
	observedDetails execshell.CommandDetails
	executionCount  int
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.observedDetails = details
	executor.executionCount++
	return execshell.ExecutionResult{}, nil
}

func TestNewClonerRequiresExecutor(testInstance *testing.T) {
	_, constructionError := repos.NewCloner(nil)

	require.ErrorIs(testInstance, constructionError, repos.ErrGitExecutorNotConfigured)
}

func TestCloneRepository(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	cloner, constructionError := repos.NewCloner(executor)
	require.NoError(testInstance, constructionError)

	cloneURL := "https://github.com/mggg-states/GA-shapefiles.git"
	destinationPath := filepath.Join(testInstance.TempDir(), "GA-shapefiles")

	cloneError := cloner.CloneRepository(context.Background(), cloneURL, destinationPath)

	require.NoError(testInstance, cloneError)
	require.Equal(testInstance, 1, executor.executionCount)
	require.Equal(testInstance, []string{"clone", "--depth", "1", "--quiet", cloneURL, destinationPath}, executor.observedDetails.Arguments)
}

func TestCloneRepositoryReusesExistingDestination(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	cloner, constructionError := repos.NewCloner(executor)
	require.NoError(testInstance, constructionError)

	existingDestination := testInstance.TempDir()

	cloneError := cloner.CloneRepository(context.Background(), "https://github.com/mggg-states/GA-shapefiles.git", existingDestination)

	require.NoError(testInstance, cloneError)
	require.Zero(testInstance, executor.executionCount)
}
