// Package client implements the HAL side of the SPI socket protocol: the
// same operations a firmware's socket SPI backend performs against the
// simulator, usable from tests and tooling.
package client

import (
	"fmt"
	"net"
	"time"

	"github.com/eswpla/spisim/internal/device"
	"github.com/eswpla/spisim/internal/protocol"
)

// Connect retry policy, matching the HAL's socket backend.
const (
	connectRetryCount = 3
	connectRetryDelay = time.Second
)

// Client drives one logical SPI device handle over a socket connection.
// Requests carry a monotonically increasing sequence number; every reply
// is checked against the request's sequence and device ID.
//
// Client is not safe for concurrent use.
type Client struct {
	conn     net.Conn
	deviceID uint8
	sequence uint32
}

// New wraps an established connection. Most callers want Dial instead.
func New(conn net.Conn, deviceID uint8) *Client {
	return &Client{conn: conn, deviceID: deviceID}
}

// Dial connects to a simulator, retrying a few times to ride out a server
// that is still starting up.
func Dial(addr string, deviceID uint8) (*Client, error) {
	var lastErr error
	for attempt := 0; attempt < connectRetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(connectRetryDelay)
		}
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		return New(conn, deviceID), nil
	}
	return nil, fmt.Errorf("failed to connect to %s after %d attempts: %w",
		addr, connectRetryCount, lastErr)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip sends one request and reads the matching response payload.
func (c *Client) roundTrip(msgType uint8, payload []byte) ([]byte, error) {
	c.sequence++
	seq := c.sequence

	if err := protocol.WriteMessage(c.conn, msgType, c.deviceID, seq, payload); err != nil {
		return nil, err
	}

	resp, err := protocol.ReadMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", protocol.TypeName(msgType), err)
	}
	if resp.Type != protocol.MsgResponse {
		return nil, fmt.Errorf("unexpected response type 0x%02x to %s", resp.Type, protocol.TypeName(msgType))
	}
	if resp.Sequence != seq {
		return nil, fmt.Errorf("sequence mismatch: sent %d, got %d", seq, resp.Sequence)
	}
	if resp.DeviceID != c.deviceID {
		return nil, fmt.Errorf("device ID mismatch: sent %d, got %d", c.deviceID, resp.DeviceID)
	}
	return resp.Payload, nil
}

// configPayload builds the 7-byte INIT/SET_CONFIG payload.
func configPayload(baudrate uint32, mode, bitOrder, dataBits uint8) []byte {
	p := make([]byte, protocol.ConfigPayloadSize)
	p[0] = byte(baudrate)
	p[1] = byte(baudrate >> 8)
	p[2] = byte(baudrate >> 16)
	p[3] = byte(baudrate >> 24)
	p[4] = mode
	p[5] = bitOrder
	p[6] = dataBits
	return p
}

// Init configures the device handle on the server and resets the simulated
// part.
func (c *Client) Init(baudrate uint32, mode, bitOrder, dataBits uint8) error {
	_, err := c.roundTrip(protocol.MsgInit, configPayload(baudrate, mode, bitOrder, dataBits))
	return err
}

// Deinit releases the device handle on the server.
func (c *Client) Deinit() error {
	_, err := c.roundTrip(protocol.MsgDeinit, nil)
	return err
}

// SetConfig updates the configuration of an already initialized handle.
func (c *Client) SetConfig(baudrate uint32, mode, bitOrder, dataBits uint8) error {
	_, err := c.roundTrip(protocol.MsgSetConfig, configPayload(baudrate, mode, bitOrder, dataBits))
	return err
}

// Transfer performs a full-duplex transfer and returns the received bytes.
// The reply is always the same length as tx.
func (c *Client) Transfer(tx []byte) ([]byte, error) {
	return c.roundTrip(protocol.MsgTransfer, tx)
}

// Send performs a transmit-only transfer.
func (c *Client) Send(tx []byte) error {
	_, err := c.roundTrip(protocol.MsgSend, tx)
	return err
}

// Receive requests n receive-only bytes.
func (c *Client) Receive(n uint16) ([]byte, error) {
	return c.roundTrip(protocol.MsgReceive, []byte{byte(n >> 8), byte(n)})
}

// Status queries the server's status bytes.
func (c *Client) Status() ([]byte, error) {
	return c.roundTrip(protocol.MsgGetStatus, nil)
}

// ReadRegister reads one register, issuing the extra frame needed to flush
// the part's one-transaction response pipeline. Both frames go out in a
// single transfer; the register value surfaces in the second response
// frame.
func (c *Client) ReadRegister(addr uint8) (uint8, error) {
	read := device.EncodeCommand(device.CmdRead, addr, 0)
	flush := device.EncodeCommand(device.CmdRead, device.RegCtrl1, 0)

	rx, err := c.Transfer([]byte{
		byte(read >> 8), byte(read),
		byte(flush >> 8), byte(flush),
	})
	if err != nil {
		return 0, err
	}
	if len(rx) != 4 {
		return 0, fmt.Errorf("short transfer reply: got %d bytes, want 4", len(rx))
	}

	frame := uint16(rx[2])<<8 | uint16(rx[3])
	_, respAddr, data := device.DecodeCommand(frame)
	if respAddr != addr&0x0F {
		return 0, fmt.Errorf("response address mismatch: asked 0x%X, got 0x%X", addr, respAddr)
	}
	return data, nil
}

// WriteRegister writes one register. The response to the write itself is
// stale pipeline data and is discarded.
func (c *Client) WriteRegister(addr, value uint8) error {
	frame := device.EncodeCommand(device.CmdWrite, addr, value)
	return c.Send([]byte{byte(frame >> 8), byte(frame)})
}
