// Package config loads application configuration from environment
// variables with sensible development defaults, and validates it before
// the server starts.
package config
