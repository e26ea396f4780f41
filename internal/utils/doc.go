// Package utils exposes reusable helpers shared by the CLI commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that wire
// Viper configuration, environment variables, and zap logging together.
package utils
