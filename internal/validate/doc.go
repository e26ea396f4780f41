// Package validate implements the descriptor-driven attribute checker at the
// heart of the QA tool. Validation is a pure, single-pass transformation from a
// (dataset, descriptor) pair to a report of findings: missing or mistyped
// columns and constraint violations surface as error findings, incidental
// deviations as warnings, and only malformed inputs fail the call itself.
package validate
