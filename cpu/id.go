package cpu

import (
	"encoding/binary"
	"fmt"
)

// Signature is the CPUID leaf 1 EAX value.
type Signature uint32

// Stepping is bits 3:0.
func (sig Signature) Stepping() uint8 {
	return uint8(sig & 0xf)
}

// Model is bits 7:4.
func (sig Signature) Model() uint8 {
	return uint8((sig >> 4) & 0xf)
}

// Family is bits 11:8.
func (sig Signature) Family() uint8 {
	return uint8((sig >> 8) & 0xf)
}

// DisplayFamily folds in the extended family for family 0xF parts.
func (sig Signature) DisplayFamily() int {
	family := int(sig.Family())
	if family == 0xf {
		family += int((sig >> 20) & 0xff)
	}

	return family
}

// DisplayModel folds in the extended model for family 6 and 0xF parts.
func (sig Signature) DisplayModel() int {
	model := int(sig.Model())
	if family := sig.Family(); family == 0x6 || family == 0xf {
		model |= int((sig>>16)&0xf) << 4
	}

	return model
}

func (sig Signature) String() string {
	return fmt.Sprintf("family %d model %d stepping %d",
		sig.DisplayFamily(), sig.DisplayModel(), sig.Stepping())
}

// MakeSignature packs 4-bit family, model and stepping fields.
func MakeSignature(family, model, stepping uint8) Signature {
	return Signature(uint32(family&0xf)<<8 | uint32(model&0xf)<<4 | uint32(stepping&0xf))
}

// Vendor assembles the 12 byte vendor string from CPUID leaf 0, which
// returns it in EBX, EDX, ECX order.
func Vendor(ebx, edx, ecx uint32) (vendor [12]byte) {
	binary.LittleEndian.PutUint32(vendor[0:4], ebx)
	binary.LittleEndian.PutUint32(vendor[4:8], edx)
	binary.LittleEndian.PutUint32(vendor[8:12], ecx)

	return
}

// VendorRegisters splits a vendor string into EBX, EDX, ECX.
func VendorRegisters(vendor [12]byte) (ebx, edx, ecx uint32) {
	ebx = binary.LittleEndian.Uint32(vendor[0:4])
	edx = binary.LittleEndian.Uint32(vendor[4:8])
	ecx = binary.LittleEndian.Uint32(vendor[8:12])

	return
}

// Identity is what the monitor learns from the feature probe.
type Identity struct {
	Vendor    [12]byte
	Signature Signature
	Features  uint32 // Leaf 1 EDX.
}

// Identify runs CPUID leaves 0 and 1. The caller must have checked HasId.
func Identify(proc Processor) (id Identity) {
	_, ebx, ecx, edx := proc.Id(0)
	id.Vendor = Vendor(ebx, edx, ecx)

	eax, _, _, edx := proc.Id(1)
	id.Signature = Signature(eax)
	id.Features = edx

	return
}
