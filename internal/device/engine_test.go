package device

import "testing"

func TestEngineFirstResponseIsZero(t *testing.T) {
	eng := NewEngine()

	// Whatever the first command is, the response carries the power-on
	// pipeline state (addr 0, data 0) with valid parity.
	rx := eng.Process(EncodeCommand(CmdRead, RegDevID, 0))
	if rx != EncodeResponse(0, 0) {
		t.Errorf("first response = 0x%04X, want 0x%04X", rx, EncodeResponse(0, 0))
	}
}

func TestEnginePipelineDelay(t *testing.T) {
	eng := NewEngine()

	// Command N's result must surface in response N+1.
	commands := []struct {
		frame    uint16
		ownAddr  uint8
		ownData  uint8 // immediate result of this command
	}{
		{EncodeCommand(CmdRead, RegDevID, 0), RegDevID, DeviceID},
		{EncodeCommand(CmdWrite, RegCtrl2, 0x55), RegCtrl2, 0x55},
		{EncodeCommand(CmdRead, RegCtrl2, 0), RegCtrl2, 0x55},
		{EncodeCommand(CmdRead, RegCtrl1, 0), RegCtrl1, 0x00},
	}

	prevAddr, prevData := uint8(0), uint8(0)
	for i, c := range commands {
		rx := eng.Process(c.frame)
		_, addr, data := DecodeCommand(rx)
		if addr != prevAddr || data != prevData {
			t.Fatalf("response %d decodes to (0x%X, 0x%02X), want previous result (0x%X, 0x%02X)",
				i+1, addr, data, prevAddr, prevData)
		}
		prevAddr, prevData = c.ownAddr, c.ownData
	}
}

func TestEngineWriteReadBack(t *testing.T) {
	eng := NewEngine()

	eng.Process(EncodeCommand(CmdWrite, RegCfg, 0x42))
	rx := eng.Process(EncodeCommand(CmdRead, RegCtrl1, 0))

	_, addr, data := DecodeCommand(rx)
	if addr != RegCfg || data != 0x42 {
		t.Errorf("write readback = (0x%X, 0x%02X), want (0x%X, 0x42)", addr, data, RegCfg)
	}
}

func TestEngineDevIDWriteReadsBackIdentity(t *testing.T) {
	eng := NewEngine()

	// A write to DEVID is ignored but still loads the pipeline with the
	// post-attempt (unchanged) register value.
	eng.Process(EncodeCommand(CmdWrite, RegDevID, 0x00))
	rx := eng.Process(0x0000)

	_, addr, data := DecodeCommand(rx)
	if addr != RegDevID || data != DeviceID {
		t.Errorf("DEVID write readback = (0x%X, 0x%02X), want (0x%X, 0x%02X)",
			addr, data, RegDevID, DeviceID)
	}
}

func TestEngineUnknownCommandResetsPipeline(t *testing.T) {
	eng := NewEngine()

	eng.Process(EncodeCommand(CmdRead, RegDevID, 0))
	// cmd=0b10 is neither read nor write
	eng.Process(0x8000)
	rx := eng.Process(0x0000)

	_, addr, data := DecodeCommand(rx)
	if addr != 0 || data != 0 {
		t.Errorf("response after unknown command = (0x%X, 0x%02X), want (0, 0)", addr, data)
	}
}

func TestEngineWatchdogCount(t *testing.T) {
	eng := NewEngine()

	for i := 0; i < 12; i++ {
		eng.Process(EncodeCommand(CmdWrite, RegWdg, 0x01))
	}
	if got := eng.WatchdogCount(); got != 12 {
		t.Errorf("WatchdogCount() = %d, want 12", got)
	}

	// Reads of the watchdog register do not count as servicing
	eng.Process(EncodeCommand(CmdRead, RegWdg, 0))
	if got := eng.WatchdogCount(); got != 12 {
		t.Errorf("WatchdogCount() = %d after read, want 12", got)
	}
}

func TestEngineReset(t *testing.T) {
	eng := NewEngine()

	eng.Process(EncodeCommand(CmdWrite, RegCtrl1, 0xFF))
	eng.Process(EncodeCommand(CmdWrite, RegWdg, 0x01))
	eng.Reset()

	if got := eng.WatchdogCount(); got != 0 {
		t.Errorf("WatchdogCount() = %d after reset, want 0", got)
	}
	if got := eng.Registers().Read(RegCtrl1); got != 0x00 {
		t.Errorf("Read(CTRL1) = 0x%02X after reset, want 0x00", got)
	}

	// Pipeline is back to power-on state
	rx := eng.Process(0x0000)
	if rx != EncodeResponse(0, 0) {
		t.Errorf("first response after reset = 0x%04X, want 0x%04X", rx, EncodeResponse(0, 0))
	}
}

func TestEngineInstancesAreIndependent(t *testing.T) {
	a := NewEngine()
	b := NewEngine()

	a.Process(EncodeCommand(CmdWrite, RegCtrl1, 0x11))
	if got := b.Registers().Read(RegCtrl1); got != 0x00 {
		t.Errorf("engine b sees 0x%02X in CTRL1 after write on engine a, want 0x00", got)
	}
}
