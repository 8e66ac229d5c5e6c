// Package pkg provides shared utilities for the benchusb instrument stack.
//
// This package contains common functionality used across the protocol codec,
// the device resolver, and the instrument session, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for resolution and transfer failures
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with instrument-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentResolver, "device matched", "vendor", vid)
//
// # Errors
//
// Common errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrTransferFailed) {
//	    // Handle a failed write or read
//	}
package pkg
