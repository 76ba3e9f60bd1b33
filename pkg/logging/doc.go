// Package logging provides structured logging utilities for host
// initialization components.
//
// This package wraps the standard library slog package with tool-specific
// defaults and conventions for consistent logging across all components.
// It supports environment-based log level configuration (LOG_LEVEL),
// module/version context injection, and automatic source location tracking
// for debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hostinit", version)
//
//	    slog.Info("starting", "step", "detect")
//	    slog.Error("operation failed", "error", err)
//	}
//
// All logs are written to stderr in JSON format. Supported levels
// (case-insensitive): DEBUG, INFO (default), WARN/WARNING, ERROR.
//
// Diagnostic logging through this package is distinct from the durable
// audit trail; see pkg/audit for the append-only run log.
package logging
