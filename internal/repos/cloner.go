package repos

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/InnovativeInventor/automated-mggg-qa/internal/execshell"
)

const (
	cloneSubcommandConstant                 = "clone"
	depthFlagConstant                       = "--depth"
	shallowCloneDepthConstant               = "1"
	quietFlagConstant                       = "--quiet"
	gitExecutorNotConfiguredMessageConstant = "git executor not configured"
)

// ErrGitExecutorNotConfigured indicates the cloner was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessageConstant)

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Cloner shallow-clones data repositories into a workspace directory.
type Cloner struct {
	executor GitCommandExecutor
}

// NewCloner constructs a repository cloner.
func NewCloner(executor GitCommandExecutor) (*Cloner, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Cloner{executor: executor}, nil
}

// CloneRepository clones the repository into destinationPath. An existing
// destination is reused without contacting the remote.
func (cloner *Cloner) CloneRepository(executionContext context.Context, cloneURL string, destinationPath string) error {
	if _, statError := os.Stat(filepath.Clean(destinationPath)); statError == nil {
		return nil
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			cloneSubcommandConstant,
			depthFlagConstant,
			shallowCloneDepthConstant,
			quietFlagConstant,
			cloneURL,
			destinationPath,
		},
	}

	_, executionError := cloner.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}
