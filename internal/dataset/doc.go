// Package dataset models in-memory tabular datasets and the providers that
// load them from shapefiles, CSV files, and zip archives maintained inside the
// audited data repositories.
package dataset
