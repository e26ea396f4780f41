// Package census wraps the US Census decennial API and layers population
// cross-checks on top of the validation finding model: state and county totals
// in an audited dataset must agree with the census within a one-person
// tolerance.
package census
