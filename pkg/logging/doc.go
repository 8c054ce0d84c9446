// Package logging provides structured logging utilities for rsspot commands.
//
// # Overview
//
// This package wraps the standard library slog package with shared defaults
// so the CLI, SDK client, and engine log consistently. It supports
// environment-based log level configuration, module/version context
// injection, and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("rsspot", version)
//
//	    slog.Info("fetching catalog", "region", region)
//	    slog.Debug("cache hit", "key", key)
//	    slog.Error("request failed", "error", err)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("rsspot", version, "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no
// explicit level is given:
//
//	LOG_LEVEL=debug rsspot pricing build --nodes 3
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format so stdout stays reserved
// for command output:
//
//	{
//	    "time": "2026-08-31T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "catalog fetched",
//	    "module": "rsspot",
//	    "version": "v1.0.0",
//	    "classes": 42
//	}
package logging
