package device

// SPI command frame bit layout: CMD(2) | ADDR(4) | DATA(8) | PARITY(1) | RESERVED(1).
const (
	cmdShift    = 14
	addrShift   = 10
	dataShift   = 2
	parityShift = 1
)

// Frame command field values. Any other value is an unknown command and
// resets the response pipeline.
const (
	CmdRead  uint8 = 0x0
	CmdWrite uint8 = 0x1
)

// Parity14 returns the even-parity bit over the low 14 bits of v, i.e. the
// bit that makes the total number of set bits even.
func Parity14(v uint16) uint16 {
	v &= 0x3FFF
	v ^= v >> 8
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v & 1
}

// DecodeCommand splits a 16-bit command frame into its cmd, addr and data
// fields. Inbound parity is not validated: the real part clocks frames
// through regardless, and the simulation preserves that.
func DecodeCommand(frame uint16) (cmd, addr, data uint8) {
	cmd = uint8(frame>>cmdShift) & 0x03
	addr = uint8(frame>>addrShift) & 0x0F
	data = uint8(frame >> dataShift)
	return cmd, addr, data
}

// EncodeCommand builds a command frame with the parity bit set for even
// parity over bits 15:2. The reserved bit is always zero.
func EncodeCommand(cmd, addr, data uint8) uint16 {
	frame := uint16(cmd&0x03)<<cmdShift | uint16(addr&0x0F)<<addrShift | uint16(data)<<dataShift
	frame |= Parity14(frame>>2) << parityShift
	return frame
}

// EncodeResponse builds a response frame for (addr, data). Responses always
// carry a zero cmd field, whatever command produced them.
func EncodeResponse(addr, data uint8) uint16 {
	return EncodeCommand(CmdRead, addr, data)
}
