// Package log provides structured protocol capture for YNCA sessions.
//
// This package defines the Logger interface and Event type for
// recording protocol traffic. It is separate from operational logging
// (slog): protocol capture produces a complete machine-readable trace
// of every line exchanged with the receiver, which is the only
// practical way to debug a protocol whose replies are unsolicited and
// unordered.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: show protocol lines via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write a binary trace file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("session.ylog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with .ylog
// extension. Reader streams them back, optionally filtered.
package log
