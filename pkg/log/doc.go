// Package log provides structured protocol logging for the glasses
// protocol stack.
//
// This package defines the Logger interface and Event types for
// capturing protocol-level events at the packet and message layers. It
// is separate from operational logging (slog): protocol capture
// produces a complete machine-readable trace of the traffic exchanged
// with the glasses, for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For offline analysis: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("glasses.trace")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at two layers:
//   - Packet: raw frame bytes (FrameEvent)
//   - Message: decoded commands and responses (MessageEvent)
//
// Flow-control bytes and errors have dedicated event types.
//
// # File Format
//
// Trace files are a plain concatenation of CBOR-encoded events; Reader
// streams them back, optionally filtered.
package log
