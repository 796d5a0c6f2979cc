package device

import (
	"go.uber.org/zap"

	"github.com/eswpla/spisim/internal/logging"
)

// Register addresses of the TLE92104 (4-bit address space).
const (
	RegCtrl1 uint8 = 0x00 // Channel control 1
	RegCtrl2 uint8 = 0x01 // Channel control 2
	RegCtrl3 uint8 = 0x02 // Channel control 3
	RegCfg   uint8 = 0x03 // Configuration
	RegDiag  uint8 = 0x04 // Diagnosis (no faults simulated)
	RegWdg   uint8 = 0x05 // Watchdog service
	RegIcr   uint8 = 0x06 // Interrupt control
	RegHwcr  uint8 = 0x07 // Hardware configuration
	RegDevID uint8 = 0x08 // Device identification (read-only)
)

// DeviceID is the fixed identity byte reported by the DEVID register.
const DeviceID uint8 = 0x5A

// registerCount covers the full 4-bit address space. Addresses above
// RegDevID are unmapped and always read as zero.
const registerCount = 16

// RegisterFile holds the simulated register contents. All registers reset
// to zero except DEVID, which holds the device identity constant.
type RegisterFile struct {
	regs [registerCount]uint8
}

// NewRegisterFile returns a register file in its power-on state.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.regs[RegDevID] = DeviceID
	return rf
}

// Read returns the value stored at addr. Unmapped addresses read as zero.
func (rf *RegisterFile) Read(addr uint8) uint8 {
	addr &= 0x0F
	if addr > RegDevID {
		return 0
	}
	return rf.regs[addr]
}

// Write stores value at addr. DEVID is read-only; a write targeting it is
// logged and dropped rather than treated as an error, matching the part's
// silent-ignore behavior.
func (rf *RegisterFile) Write(addr, value uint8) {
	addr &= 0x0F
	if addr == RegDevID {
		logging.Debug("Write to read-only DEVID register ignored",
			zap.Uint8("value", value),
		)
		return
	}
	rf.regs[addr] = value
}

// RegisterName returns the datasheet name for a register address.
func RegisterName(addr uint8) string {
	switch addr & 0x0F {
	case RegCtrl1:
		return "CTRL1"
	case RegCtrl2:
		return "CTRL2"
	case RegCtrl3:
		return "CTRL3"
	case RegCfg:
		return "CFG"
	case RegDiag:
		return "DIAG"
	case RegWdg:
		return "WDG"
	case RegIcr:
		return "ICR"
	case RegHwcr:
		return "HWCR"
	case RegDevID:
		return "DEVID"
	default:
		return "UNMAPPED"
	}
}
