package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadMessage reads one complete message from r, blocking until the header
// and full payload have arrived or the stream closes.
//
// A clean close on a message boundary returns io.EOF unchanged so callers
// can treat it as end-of-session. A stream that closes mid-header or
// mid-payload returns a wrapped error (io.ErrUnexpectedEOF underneath).
func ReadMessage(r io.Reader) (*Message, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}

	msg := &Message{
		Header: Header{
			Type:     hdr[0],
			DeviceID: hdr[1],
			Length:   binary.LittleEndian.Uint16(hdr[2:4]),
			Sequence: binary.LittleEndian.Uint32(hdr[4:8]),
		},
	}

	if msg.Length > 0 {
		msg.Payload = make([]byte, msg.Length)
		if _, err := io.ReadFull(r, msg.Payload); err != nil {
			return nil, fmt.Errorf("failed to read %d payload bytes: %w", msg.Length, err)
		}
	}

	return msg, nil
}

// WriteMessage emits a message with the given header fields and payload as
// one logical write.
func WriteMessage(w io.Writer, msgType, deviceID uint8, sequence uint32, payload []byte) error {
	buf := make([]byte, HeaderSize+len(payload))
	buf[0] = msgType
	buf[1] = deviceID
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(payload)))
	binary.LittleEndian.PutUint32(buf[4:8], sequence)
	copy(buf[HeaderSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write %s message: %w", TypeName(msgType), err)
	}
	return nil
}

// WriteResponse emits a RESPONSE message echoing the request's device ID
// and sequence number.
func WriteResponse(w io.Writer, deviceID uint8, sequence uint32, payload []byte) error {
	return WriteMessage(w, MsgResponse, deviceID, sequence, payload)
}
