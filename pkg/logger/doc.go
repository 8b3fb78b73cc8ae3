// Package logger provides the structured logging interface used across pexelsimport.
//
// It wraps zerolog with leveled methods, field helpers and a process-wide
// logger. Console output goes to stderr so that command output on stdout
// (porcelain attachment IDs, dry-run requests) stays machine readable.
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("token", "3604268").Debug("Resolving photo")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard them.
package logger
