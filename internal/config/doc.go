// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and QUIZCHAIN_ environment variables.
// It provides type-safe access to the settings needed by the server, the
// store adapters and the sweeper while keeping configuration details
// separate from business logic.
package config
