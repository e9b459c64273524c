package firmware

import (
	"github.com/cmraible/ai-os-dev/cpu"
)

func (fw *Firmware) ping() {
	fw.Uart.SendString(MSG_PONG + CRLF)
}

func (fw *Firmware) info() {
	fw.Uart.SendString(infoText(fw.Config))
}

func (fw *Firmware) help() {
	fw.Uart.SendString(helpText(fw.Table))
}

func (fw *Firmware) cpuInfo() {
	if !cpu.HasId(fw.Cpu) {
		fw.Uart.SendString(MSG_NO_CPUID + CRLF)
		return
	}

	id := cpu.Identify(fw.Cpu)

	fw.Uart.SendString(MSG_VENDOR)
	fw.SendBytes(id.Vendor[:])
	fw.Uart.SendString(CRLF)

	fields := []struct {
		label string
		value uint8
	}{
		{MSG_FAMILY, id.Signature.Family()},
		{MSG_MODEL, id.Signature.Model()},
		{MSG_STEPPING, id.Signature.Stepping()},
	}
	for _, field := range fields {
		fw.Uart.SendString(field.label)
		fw.SendHex8(field.value)
		fw.Uart.SendString(CRLF)
	}
}

func (fw *Firmware) memoryDump() {
	start := fw.Config.DumpStart
	fw.SendDump(func(n int) uint8 {
		return fw.Memory.Read8(start + uint32(n))
	}, fw.Config.DumpLength)
}

func (fw *Firmware) selfTest() {
	fw.Uart.SendString(MSG_TESTING + CRLF)

	failed, ok := fw.SelfTest()
	if !ok {
		fw.Uart.SendString(MSG_TEST_FAIL + failed + CRLF)
		return
	}

	fw.Uart.SendString(MSG_TEST_PASS + CRLF)
}

func (fw *Firmware) reboot() {
	fw.Uart.SendString(MSG_REBOOT + CRLF)
	fw.Uart.Flush()

	for range fw.Config.RebootDelay {
		fw.Ports.Out(PORT_DELAY, 0)
	}

	fw.Platform.Reset()

	panic(ErrResetReturned)
}

func (fw *Firmware) unknown() {
	fw.Uart.SendString(MSG_UNKNOWN + CRLF)
}
