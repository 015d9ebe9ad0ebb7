// Package config loads runtime settings from YAML config files and
// PERDIDO_-prefixed environment variables, with sensible defaults for
// everything except credentials.
package config
