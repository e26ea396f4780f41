// Package repos acquires the audited data repositories: it enumerates a GitHub
// organization's repositories through the gh CLI and shallow-clones the ones
// named by descriptors into a local workspace.
package repos
