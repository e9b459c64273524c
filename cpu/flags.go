package cpu

// Processor status word bits.
const (
	FLAG_CF       = uint32(1 << 0)  // Carry.
	FLAG_RESERVED = uint32(1 << 1)  // Always reads as one.
	FLAG_PF       = uint32(1 << 2)  // Parity.
	FLAG_AF       = uint32(1 << 4)  // Auxiliary carry.
	FLAG_ZF       = uint32(1 << 6)  // Zero.
	FLAG_SF       = uint32(1 << 7)  // Sign.
	FLAG_TF       = uint32(1 << 8)  // Trap.
	FLAG_IF       = uint32(1 << 9)  // Interrupt enable.
	FLAG_DF       = uint32(1 << 10) // Direction.
	FLAG_OF       = uint32(1 << 11) // Overflow.
	FLAG_AC       = uint32(1 << 18) // Alignment check (486+).
	FLAG_ID       = uint32(1 << 21) // CPUID available when writable.

	// Bits every modelled processor lets software change.
	FLAGS_WRITABLE = FLAG_CF | FLAG_PF | FLAG_AF | FLAG_ZF | FLAG_SF |
		FLAG_TF | FLAG_IF | FLAG_DF | FLAG_OF | FLAG_AC

	// Status word after the boot stub: reserved bit plus interrupts on.
	FLAGS_BOOT = FLAG_RESERVED | FLAG_IF
)

// Processor is the privileged instruction surface the monitor uses.
type Processor interface {
	// ReadFlags is pushfd; pop eax.
	ReadFlags() uint32
	// WriteFlags is push eax; popfd. Read-only bits keep their value.
	WriteFlags(value uint32)
	// Id is the CPUID instruction with EAX=leaf.
	Id(leaf uint32) (eax, ebx, ecx, edx uint32)
}

// IdToggled reports whether flipping the ID bit between before and after
// persisted.
func IdToggled(before, after uint32) bool {
	return (before^after)&FLAG_ID != 0
}

// HasId probes for CPUID by flipping the ID bit in the status word and
// checking whether the flip stuck. The original status word is restored
// before returning, whatever the outcome.
func HasId(proc Processor) (ok bool) {
	original := proc.ReadFlags()
	defer proc.WriteFlags(original)

	proc.WriteFlags(original ^ FLAG_ID)

	return IdToggled(original, proc.ReadFlags())
}
