package server

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/eswpla/spisim/internal/device"
	"github.com/eswpla/spisim/internal/discovery"
	"github.com/eswpla/spisim/internal/logging"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	LogLevel string
	Announce bool // Advertise the simulator via mDNS
}

// Server accepts HAL clients and feeds their messages to the simulated
// device. It owns the single engine instance shared by all sessions.
type Server struct {
	config   *Config
	listener net.Listener
	engine   *device.Engine

	mu      sync.Mutex
	current net.Conn // active session connection, nil when idle
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return &Server{
		config: config,
		engine: device.NewEngine(),
	}, nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	logging.Info("SPI HAL socket server listening",
		zap.String("addr", addr),
		zap.String("device", "TLE92104"),
		zap.Uint8("device_id", device.DeviceID),
		zap.String("log_level", s.config.LogLevel),
	)

	if s.config.Announce {
		announcer, err := discovery.Announce("spisim", s.config.Port)
		if err != nil {
			// Discovery is a convenience; the server is still reachable by address.
			logging.Warn("mDNS announcement failed", zap.Error(err))
		} else {
			defer announcer.Shutdown()
			logging.Info("Simulator announced via mDNS",
				zap.String("service", discovery.ServiceType),
			)
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.acceptConnections()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown()
	case err := <-errChan:
		return err
	}
}

// acceptConnections serves accepted connections one at a time: the next
// Accept does not happen until the current session has run to completion.
// The shared engine instance makes concurrent sessions unsafe, so the
// serialization must stay.
func (s *Server) acceptConnections() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if listener was closed (during shutdown)
			if opErr, ok := err.(*net.OpError); ok && opErr.Err.Error() == "use of closed network connection" {
				return nil
			}
			logging.Error("Failed to accept connection", zap.Error(err))
			continue
		}

		s.mu.Lock()
		s.current = conn
		s.mu.Unlock()

		Serve(conn, s.engine)

		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
	}
}

// Shutdown stops the listener, closes the active session if any, and
// flushes the logger.
func (s *Server) Shutdown() error {
	logging.Info("Shutting down server...")

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			logging.Error("Error closing listener", zap.Error(err))
		}
	}

	s.mu.Lock()
	if s.current != nil {
		logging.Info("Closing active session",
			zap.String("remote_addr", s.current.RemoteAddr().String()),
		)
		_ = s.current.Close()
	}
	s.mu.Unlock()

	logging.Sync()
	return nil
}
