// Package memory simulates the 1MiB real-mode address space.
package memory

import (
	"iter"

	"github.com/cmraible/ai-os-dev/internal"
)

const (
	SIZE = uint32(1 << 20) // Real-mode address space.
	MASK = SIZE - 1        // Addresses wrap with the A20 gate off.

	CONVENTIONAL_KB = 640     // Memory below the video hole.
	BDA_ADDR        = 0x00400 // BIOS data area.
	SCRATCH_ADDR    = 0x00500 // First byte free for boot code.
	VIDEO_ADDR      = 0xa0000 // Start of the video hole.
)

// Defines returns the memory map constants for configuration scripts.
func Defines() iter.Seq2[string, string] {
	return internal.Defines(map[string]uint32{
		"MEMORY_SIZE":     SIZE,
		"CONVENTIONAL_KB": CONVENTIONAL_KB,
		"SCRATCH_ADDR":    SCRATCH_ADDR,
		"VIDEO_ADDR":      VIDEO_ADDR,
	})
}

type stuck struct {
	and uint8
	or  uint8
}

// Memory is a flat byte array with optional stuck-at faults.
type Memory struct {
	data  []byte
	stuck map[uint32]stuck
}

// NewMemory creates a zeroed address space.
func NewMemory() (mem *Memory) {
	mem = &Memory{
		data: make([]byte, SIZE),
	}

	return
}

// Clear zeros every byte. Faults stay in place.
func (mem *Memory) Clear() {
	clear(mem.data)
}

// Read8 reads one byte through any fault on that address.
func (mem *Memory) Read8(addr uint32) (value uint8) {
	addr &= MASK
	value = mem.data[addr]
	if fault, ok := mem.stuck[addr]; ok {
		value = (value & fault.and) | fault.or
	}

	return
}

// Write8 writes one byte.
func (mem *Memory) Write8(addr uint32, value uint8) {
	mem.data[addr&MASK] = value
}

// Read16 reads a little-endian word.
func (mem *Memory) Read16(addr uint32) uint16 {
	return uint16(mem.Read8(addr)) | uint16(mem.Read8(addr+1))<<8
}

// Write16 writes a little-endian word.
func (mem *Memory) Write16(addr uint32, value uint16) {
	mem.Write8(addr, uint8(value))
	mem.Write8(addr+1, uint8(value>>8))
}

// Read copies length bytes starting at addr.
func (mem *Memory) Read(addr uint32, length int) (data []byte) {
	data = make([]byte, length)
	for n := range data {
		data[n] = mem.Read8(addr + uint32(n))
	}

	return
}

// Load copies data into memory starting at addr.
func (mem *Memory) Load(addr uint32, data []byte) {
	for n, value := range data {
		mem.Write8(addr+uint32(n), value)
	}
}

// Stick injects a stuck-at fault: reads of addr return
// (stored & and) | or.
func (mem *Memory) Stick(addr uint32, and uint8, or uint8) {
	if mem.stuck == nil {
		mem.stuck = make(map[uint32]stuck)
	}

	mem.stuck[addr&MASK] = stuck{and: and, or: or}
}

// Unstick removes every injected fault.
func (mem *Memory) Unstick() {
	clear(mem.stuck)
}
