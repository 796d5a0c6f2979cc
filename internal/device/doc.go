// Package device simulates the Infineon TLE92104 4-channel high-side switch.
//
// The TLE92104 is controlled over SPI with 16-bit command frames:
//   - Frame layout: CMD(2) | ADDR(4) | DATA(8) | PARITY(1) | RESERVED(1)
//   - CMD: 00 = read, 01 = write
//   - PARITY: even parity over bits 15:2
//
// The part answers with a one-transaction lag: the frame shifted out during
// transaction N carries the result of transaction N-1, because the response
// is loaded into the shift register before the incoming command is latched.
// Engine reproduces this exactly, so a client must clock an extra frame
// through to observe the result of its last command.
//
// # Register Map
//
// Nine registers are defined (CTRL1 through DEVID, addresses 0x00-0x08).
// DEVID is read-only and always reports 0x5A. Addresses 0x09-0x0F are
// unmapped and read as zero. Writes to the watchdog register are counted
// for liveness observability; the count never feeds back into behavior.
//
// # Usage
//
//	eng := device.NewEngine()
//	_ = eng.Process(device.EncodeCommand(device.CmdRead, device.RegDevID, 0))
//	rx := eng.Process(0x0000) // response to the DEVID read surfaces here
//	_, _, id := device.DecodeCommand(rx)
package device
