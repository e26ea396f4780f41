package repos

import "strings"

const (
	repositoryNameSeparatorConstant = "-"
)

// StateRepository describes one data repository holding a state's shapefiles.
type StateRepository struct {
	State    string
	Name     string
	Account  string
	CloneURL string
}

// StateFromRepositoryName derives the state prefix from a repository name such
// as "AZ-shapefiles".
func StateFromRepositoryName(repositoryName string) string {
	nameSegments := strings.Split(repositoryName, repositoryNameSeparatorConstant)
	return nameSegments[0]
}
