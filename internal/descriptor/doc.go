// Package descriptor defines the externally authored schema documents that
// describe each audited dataset: expected columns and types, per-column
// constraints, repository artifact locations, and the well-known columns the
// population checks consume. Documents are validated once at load time and
// treated as read-only afterwards.
package descriptor
