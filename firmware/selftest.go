package firmware

import (
	"github.com/cmraible/ai-os-dev/memory"
)

const (
	TEST_ADDR = memory.SCRATCH_ADDR // Byte the memory check exercises.
)

// Check is one self test step.
type Check struct {
	Name string
	Run  func(fw *Firmware) bool
}

var _checks = [...]Check{
	{"stack", (*Firmware).checkStack},
	{"memory", (*Firmware).checkMemory},
	{"flags", (*Firmware).checkFlags},
}

// SelfTest runs the checks in order and stops at the first failure.
func (fw *Firmware) SelfTest() (failed string, ok bool) {
	for _, check := range _checks {
		if !check.Run(fw) {
			return check.Name, false
		}
	}

	return "", true
}

// Two words pushed come back in reverse order and SP ends where it began.
func (fw *Firmware) checkStack() bool {
	sp := fw.Stack.SP

	fw.Stack.Push(0x55aa)
	fw.Stack.Push(0x1234)

	second, _ := fw.Stack.Pop()
	first, _ := fw.Stack.Pop()

	return second == 0x1234 && first == 0x55aa && fw.Stack.SP == sp
}

// Alternating bit patterns read back unchanged; the original byte is
// restored.
func (fw *Firmware) checkMemory() (ok bool) {
	saved := fw.Memory.Read8(TEST_ADDR)
	defer fw.Memory.Write8(TEST_ADDR, saved)

	for _, pattern := range []uint8{0x55, 0xaa} {
		fw.Memory.Write8(TEST_ADDR, pattern)
		if fw.Memory.Read8(TEST_ADDR) != pattern {
			return false
		}
	}

	return true
}

// The status word reads back non-zero. Bit 1 always reads as one, so
// this cannot fail on a working part; it is kept as a smoke test of the
// flags read path.
func (fw *Firmware) checkFlags() bool {
	return fw.Cpu.ReadFlags() != 0
}
