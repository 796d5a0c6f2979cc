// Package server implements the TCP server side of the SPI HAL socket
// protocol, backed by a simulated TLE92104 high-side switch.
//
// The server accepts HAL clients on a plain TCP listener and serves one
// connection to completion before accepting the next. This is deliberate:
// the register file and response pipeline are a single shared instance with
// no internal locking, exactly like the one physical part the protocol was
// designed around. The simulated part survives across connections; clients
// reset it with an INIT message, the first thing a HAL does after
// connecting.
//
// # Session Loop
//
// Within a session, handling is fully synchronous: read one complete
// message, dispatch it, write one complete reply, repeat. A clean close on
// a message boundary ends the session quietly; a close mid-message is
// logged as a protocol fault. Either way the listener resumes accepting.
//
// # Usage
//
//	srv, err := server.New(&server.Config{
//	    Host:     "127.0.0.1",
//	    Port:     9000,
//	    LogLevel: "info",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Start blocks until shutdown signal or listener error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// SIGINT and SIGTERM stop the listener, close the active session if one is
// running, and flush the logger.
package server
