// Package ui renders human-readable console feedback for shell commands.
//
// It translates git and gh execution events into short console lines so
// progress stays visible during long repository audits while detailed
// telemetry continues to flow through structured loggers.
package ui
