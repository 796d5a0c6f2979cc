// Package protocol implements the SPI HAL socket message protocol.
//
// The protocol carries SPI HAL operations between a hardware-abstraction
// layer client and the simulator over a TCP stream. Every message is an
// 8-byte header followed by a variable payload:
//
//	type:     u8   message type
//	deviceId: u8   logical SPI device handle
//	length:   u16  payload length, little-endian
//	sequence: u32  client-assigned sequence number, little-endian
//
// Replies always carry type 0x80 (RESPONSE) and echo the request's deviceId
// and sequence.
//
// # Message Types
//
//   - INIT (0x01): configure a device handle, reset the simulated part
//   - DEINIT (0x02): drop a device handle
//   - TRANSFER (0x03): full-duplex SPI transfer, payload echoed through the part
//   - SEND (0x04): transmit-only transfer, empty reply
//   - RECEIVE (0x05): request N zero bytes (N is big-endian in the payload,
//     unlike the little-endian header length; the asymmetry is part of the
//     protocol and preserved deliberately)
//   - SET_CONFIG (0x06): update an existing device handle's configuration
//   - GET_STATUS (0x07): fixed two-byte status reply
//
// # Usage
//
//	msg, err := protocol.ReadMessage(conn)
//	if err != nil {
//	    return err // io.EOF means the peer closed between messages
//	}
//	reply := handle(msg)
//	err = protocol.WriteResponse(conn, msg.DeviceID, msg.Sequence, reply)
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use on distinct
// streams.
package protocol
