package server

import (
	"encoding/binary"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/eswpla/spisim/internal/device"
	"github.com/eswpla/spisim/internal/logging"
	"github.com/eswpla/spisim/internal/protocol"
)

// deviceConfig mirrors the 7-byte INIT/SET_CONFIG payload for one logical
// SPI device handle.
type deviceConfig struct {
	Baudrate    uint32
	Mode        uint8
	BitOrder    uint8
	DataBits    uint8
	Initialized bool
}

// session serves one accepted connection. It owns the per-connection table
// of configured device handles; the engine is the server-wide shared
// instance.
type session struct {
	conn       net.Conn
	remoteAddr string
	engine     *device.Engine
	devices    map[uint8]*deviceConfig
}

// Serve runs the message loop for one connection until the peer closes it
// or a protocol fault ends the session. The connection is closed on return.
func Serve(conn net.Conn, engine *device.Engine) {
	s := &session{
		conn:       conn,
		remoteAddr: conn.RemoteAddr().String(),
		engine:     engine,
		devices:    make(map[uint8]*deviceConfig),
	}
	s.run()
}

func (s *session) run() {
	logging.LogConnection(s.remoteAddr, "connection_accepted")

	defer func() {
		_ = s.conn.Close()
		logging.LogConnection(s.remoteAddr, "connection_closed")
	}()

	for {
		msg, err := protocol.ReadMessage(s.conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logging.Info("Client disconnected",
					zap.String("remote_addr", s.remoteAddr),
				)
			} else {
				// Truncated message or socket fault: log and end the
				// session, the listener keeps accepting.
				logging.Error("Session read failed",
					zap.String("remote_addr", s.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}

		logging.Debug("Message received",
			zap.String("remote_addr", s.remoteAddr),
			zap.String("type", protocol.TypeName(msg.Type)),
			zap.Uint8("device_id", msg.DeviceID),
			zap.Uint32("sequence", msg.Sequence),
			zap.Uint16("length", msg.Length),
		)

		reply := s.dispatch(msg)

		if err := protocol.WriteResponse(s.conn, msg.DeviceID, msg.Sequence, reply); err != nil {
			logging.Error("Session write failed",
				zap.String("remote_addr", s.remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// dispatch maps a message to its operation and returns the reply payload.
// Every request gets a reply, including unknown types.
func (s *session) dispatch(msg *protocol.Message) []byte {
	switch msg.Type {
	case protocol.MsgInit:
		return s.handleInit(msg)
	case protocol.MsgDeinit:
		return s.handleDeinit(msg)
	case protocol.MsgTransfer:
		return s.transfer(msg.Payload)
	case protocol.MsgSend:
		s.transfer(msg.Payload)
		return nil
	case protocol.MsgReceive:
		return s.handleReceive(msg)
	case protocol.MsgSetConfig:
		return s.handleSetConfig(msg)
	case protocol.MsgGetStatus:
		// Fixed "ready, no error" status; the simulator does not model faults.
		return []byte{0x01, 0x00}
	default:
		logging.Warn("Unknown message type",
			zap.Uint8("type", msg.Type),
			zap.Uint8("device_id", msg.DeviceID),
		)
		return nil
	}
}

func (s *session) handleInit(msg *protocol.Message) []byte {
	if cfg, ok := parseConfigPayload(msg.Payload); ok {
		cfg.Initialized = true
		s.devices[msg.DeviceID] = cfg
		logging.Info("Device initialized",
			zap.Uint8("device_id", msg.DeviceID),
			zap.Uint32("baudrate", cfg.Baudrate),
			zap.Uint8("mode", cfg.Mode),
			zap.Uint8("data_bits", cfg.DataBits),
		)
	}

	// INIT always power-cycles the simulated part, even when the config
	// payload is too short to parse.
	s.engine.Reset()
	return nil
}

func (s *session) handleDeinit(msg *protocol.Message) []byte {
	if _, ok := s.devices[msg.DeviceID]; ok {
		delete(s.devices, msg.DeviceID)
		logging.Info("Device deinitialized",
			zap.Uint8("device_id", msg.DeviceID),
		)
	}
	return nil
}

func (s *session) handleReceive(msg *protocol.Message) []byte {
	if len(msg.Payload) < 2 {
		return nil
	}
	// The requested length is big-endian, unlike the little-endian header
	// length field. Protocol quirk, kept on purpose.
	requested := binary.BigEndian.Uint16(msg.Payload[:2])
	return make([]byte, requested)
}

func (s *session) handleSetConfig(msg *protocol.Message) []byte {
	cfg, ok := parseConfigPayload(msg.Payload)
	if !ok {
		return nil
	}
	existing, known := s.devices[msg.DeviceID]
	if !known {
		logging.Warn("SET_CONFIG for unknown device",
			zap.Uint8("device_id", msg.DeviceID),
		)
		return nil
	}
	existing.Baudrate = cfg.Baudrate
	existing.Mode = cfg.Mode
	existing.BitOrder = cfg.BitOrder
	existing.DataBits = cfg.DataBits
	logging.Info("Device reconfigured",
		zap.Uint8("device_id", msg.DeviceID),
		zap.Uint32("baudrate", cfg.Baudrate),
	)
	return nil
}

// transfer shifts the payload through the engine, two bytes per 16-bit
// frame, MSB first. Output length always equals input length: a payload
// shorter than one frame passes through verbatim, and an odd trailing byte
// produces a 0x00 in the reply.
func (s *session) transfer(payload []byte) []byte {
	if len(payload) < 2 {
		return payload
	}

	out := make([]byte, 0, len(payload))
	for i := 0; i+1 < len(payload); i += 2 {
		tx := uint16(payload[i])<<8 | uint16(payload[i+1])
		rx := s.engine.Process(tx)
		out = append(out, byte(rx>>8), byte(rx))
	}
	if len(payload)%2 != 0 {
		out = append(out, 0x00)
	}
	return out
}

// parseConfigPayload decodes the leading 7 configuration bytes of an
// INIT/SET_CONFIG payload. Extra bytes are ignored; a short payload
// reports false.
func parseConfigPayload(payload []byte) (*deviceConfig, bool) {
	if len(payload) < protocol.ConfigPayloadSize {
		return nil, false
	}
	return &deviceConfig{
		Baudrate: binary.LittleEndian.Uint32(payload[0:4]),
		Mode:     payload[4],
		BitOrder: payload[5],
		DataBits: payload[6],
	}, true
}
