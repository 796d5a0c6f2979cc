package protocol

import "fmt"

// Message type constants of the SPI HAL socket protocol.
const (
	MsgInit      uint8 = 0x01
	MsgDeinit    uint8 = 0x02
	MsgTransfer  uint8 = 0x03
	MsgSend      uint8 = 0x04
	MsgReceive   uint8 = 0x05
	MsgSetConfig uint8 = 0x06
	MsgGetStatus uint8 = 0x07
	MsgResponse  uint8 = 0x80
)

// HeaderSize is the fixed size of the message header in bytes.
const HeaderSize = 8

// ConfigPayloadSize is the minimum INIT/SET_CONFIG payload: baudrate(4) +
// mode(1) + bitOrder(1) + dataBits(1). Longer payloads are allowed; the
// excess is ignored.
const ConfigPayloadSize = 7

// Header is the fixed message header. Multi-byte fields are little-endian
// on the wire.
type Header struct {
	Type     uint8
	DeviceID uint8
	Length   uint16
	Sequence uint32
}

// Message is one complete protocol message: header plus exactly
// Header.Length payload bytes.
type Message struct {
	Header
	Payload []byte
}

// String returns a debug representation of the message.
func (m *Message) String() string {
	return fmt.Sprintf("Message{type=%s, device=%d, seq=%d, len=%d}",
		TypeName(m.Type), m.DeviceID, m.Sequence, m.Length)
}

// TypeName returns a human-readable name for a message type.
func TypeName(msgType uint8) string {
	switch msgType {
	case MsgInit:
		return "INIT"
	case MsgDeinit:
		return "DEINIT"
	case MsgTransfer:
		return "TRANSFER"
	case MsgSend:
		return "SEND"
	case MsgReceive:
		return "RECEIVE"
	case MsgSetConfig:
		return "SET_CONFIG"
	case MsgGetStatus:
		return "GET_STATUS"
	case MsgResponse:
		return "RESPONSE"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", msgType)
	}
}
