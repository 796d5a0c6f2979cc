package device

import (
	"go.uber.org/zap"

	"github.com/eswpla/spisim/internal/logging"
)

// watchdogLogInterval controls how often watchdog servicing is reported.
const watchdogLogInterval = 10

// Engine simulates the TLE92104 SPI shift-register pipeline on top of a
// register file. The frame returned by Process carries the result of the
// previous transaction, never the current one; after power-on (or Reset)
// the first response decodes to address 0, data 0.
//
// Engine is not safe for concurrent use. The server serves one session at
// a time, so no synchronization is needed there; tests wanting isolation
// create their own instances.
type Engine struct {
	regs *RegisterFile

	// Result of the most recently completed transaction, shifted out on
	// the next call.
	pendingAddr uint8
	pendingData uint8

	watchdogCount uint64
}

// NewEngine returns an engine in its power-on state.
func NewEngine() *Engine {
	return &Engine{regs: NewRegisterFile()}
}

// Reset returns the engine to its power-on state: fresh register file,
// pipeline cleared, watchdog count zeroed. Equivalent to replacing the
// engine with a new instance.
func (e *Engine) Reset() {
	e.regs = NewRegisterFile()
	e.pendingAddr = 0
	e.pendingData = 0
	e.watchdogCount = 0
}

// Process runs one 16-bit command frame through the device and returns the
// response frame for the previous transaction.
func (e *Engine) Process(frame uint16) uint16 {
	reply := EncodeResponse(e.pendingAddr, e.pendingData)

	cmd, addr, data := DecodeCommand(frame)
	switch cmd {
	case CmdRead:
		e.pendingAddr = addr
		e.pendingData = e.regs.Read(addr)
		logging.Debug("READ",
			zap.String("reg", RegisterName(addr)),
			zap.Uint8("addr", addr),
			zap.Uint8("value", e.pendingData),
		)
	case CmdWrite:
		e.regs.Write(addr, data)
		if addr == RegWdg {
			e.watchdogCount++
			if e.watchdogCount%watchdogLogInterval == 0 {
				logging.Info("Watchdog serviced",
					zap.Uint64("count", e.watchdogCount),
				)
			}
		}
		// Read back the post-write value, so a write to DEVID reports the
		// unchanged identity byte.
		e.pendingAddr = addr
		e.pendingData = e.regs.Read(addr)
		logging.Debug("WRITE",
			zap.String("reg", RegisterName(addr)),
			zap.Uint8("addr", addr),
			zap.Uint8("value", data),
			zap.Uint8("readback", e.pendingData),
		)
	default:
		logging.Warn("Unknown SPI command", zap.Uint8("cmd", cmd))
		e.pendingAddr = 0
		e.pendingData = 0
	}

	return reply
}

// Registers exposes the underlying register file.
func (e *Engine) Registers() *RegisterFile {
	return e.regs
}

// WatchdogCount reports how many writes have targeted the watchdog
// register since power-on or the last Reset.
func (e *Engine) WatchdogCount() uint64 {
	return e.watchdogCount
}
