// Package defaults provides centralized configuration constants for host
// initialization.
//
// This package defines the fixed file-path contracts, policy defaults,
// permissions, and timeout values used across the codebase. Centralizing
// these values ensures consistency and makes tuning easier.
//
// Policy values (password length, prompt attempts, nofile ceiling, paths)
// can be overridden via the configuration file; see pkg/config.
package defaults
