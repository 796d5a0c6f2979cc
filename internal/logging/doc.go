// Package logging provides structured logging for the SPI simulator.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the server. It provides both general logging
// functions and specialized functions for protocol-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, per-frame register traces)
//   - Info: Normal operations (connections, messages, watchdog servicing)
//   - Warn: Non-fatal issues (unknown message types, unknown SPI commands)
//   - Error: Fatal issues (startup failures, broken sessions)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device initialized",
//	    zap.Uint8("device_id", 1),
//	    zap.Uint32("baudrate", 1000000),
//	)
//
// # Specialized Logging
//
// Connection logging:
//
//	logging.LogConnection(remoteAddr, "connection_accepted")
//	logging.LogConnection(remoteAddr, "connection_closed")
//
// Raw byte logging for protocol debugging:
//
//	logging.LogRawBytes("transfer payload", payload)
//
// # Configuration
//
// Initialize logging at server startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, the SPISIM_LOG_LEVEL environment variable is
// consulted; if that is also unset, logging is silent.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
