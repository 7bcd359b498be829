// Package logger provides structured logging for respd.
//
// It wraps log/slog with a small Logger interface, a process-wide level that
// can be changed at runtime, and an attribute hook that shortens oversized
// string values so client payloads never flood the log.
//
// Features:
//   - JSON structured logging (default) or text
//   - Runtime level changes via SetLevel (used by config hot reload)
//   - Context helpers carrying the connection ID
//   - Optional rotating file output
package logger
