package cpu

import (
	"log"
)

// Cpu is a simulated processor implementing Processor.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Model   *Model // Identification preset.

	flags uint32
}

var _ Processor = (*Cpu)(nil)

// NewCpu creates a processor for a model.
func NewCpu(model *Model) (cpu *Cpu, err error) {
	if len(model.Vendor) != 12 {
		err = ErrModelVendor
		return
	}

	cpu = &Cpu{
		Model: model,
	}
	cpu.Reset()

	return
}

// Reset the status word to its state after the boot stub.
func (cpu *Cpu) Reset() {
	cpu.flags = FLAGS_BOOT
}

func (cpu *Cpu) writable() uint32 {
	mask := FLAGS_WRITABLE
	if cpu.Model.HasId {
		mask |= FLAG_ID
	}

	return mask
}

// ReadFlags returns the status word.
func (cpu *Cpu) ReadFlags() uint32 {
	return cpu.flags
}

// WriteFlags updates the writable bits of the status word.
func (cpu *Cpu) WriteFlags(value uint32) {
	mask := cpu.writable()
	cpu.flags = (cpu.flags &^ mask) | (value & mask) | FLAG_RESERVED

	if cpu.Verbose {
		log.Printf("cpu: flags 0x%08x", cpu.flags)
	}
}

// Id answers CPUID leaves 0 and 1. Leaves above MaxLeaf read as zero.
// A part without CPUID would fault; here it reads as zero as well.
func (cpu *Cpu) Id(leaf uint32) (eax, ebx, ecx, edx uint32) {
	model := cpu.Model
	if !model.HasId || leaf > model.MaxLeaf {
		return
	}

	switch leaf {
	case 0:
		eax = model.MaxLeaf
		var vendor [12]byte
		copy(vendor[:], model.Vendor)
		ebx, edx, ecx = VendorRegisters(vendor)
	case 1:
		eax = uint32(model.Signature)
		edx = model.Features
	}

	if cpu.Verbose {
		log.Printf("cpu: cpuid 0x%x: %08x %08x %08x %08x", leaf, eax, ebx, ecx, edx)
	}

	return
}
