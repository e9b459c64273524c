// Package bus provides the port-mapped I/O space of the simulated machine.
//
// Drivers talk to hardware only through the Ports interface, so the same
// driver code runs against the simulated devices on a Bus or against a
// test double.
package bus

import (
	"log"
)

// Ports is the x86 I/O port space as seen by a driver.
type Ports interface {
	// In reads one byte from an I/O port.
	In(port uint16) uint8
	// Out writes one byte to an I/O port.
	Out(port uint16, value uint8)
}

// Waiter is implemented by port spaces that can park a busy-waiting driver
// until a device status may have changed. It is the moral equivalent of
// the x86 pause instruction: a hint, never a synchronization primitive.
type Waiter interface {
	Wait()
}

// Device is a block of device registers. Offsets are relative to the
// base port the device is mapped at.
type Device interface {
	In(offset uint16) uint8
	Out(offset uint16, value uint8)
}

const (
	FLOATING = uint8(0xff) // Value read from an unmapped port.
)

type mapping struct {
	base   uint16
	size   uint16
	device Device
}

func (m *mapping) contains(port uint16) bool {
	return port >= m.base && uint32(port) < uint32(m.base)+uint32(m.size)
}

// Bus routes port accesses to mapped devices.
type Bus struct {
	Verbose bool // Log accesses to unmapped ports.

	mappings []mapping
}

var _ Ports = (*Bus)(nil)
var _ Waiter = (*Bus)(nil)

// Map attaches a device to a range of ports.
func (b *Bus) Map(base uint16, size uint16, device Device) (err error) {
	if size == 0 || uint32(base)+uint32(size) > 0x10000 {
		err = &ErrRange{Base: base, Size: size}
		return
	}

	for _, m := range b.mappings {
		if m.contains(base) || m.contains(base+size-1) ||
			(base <= m.base && uint32(base)+uint32(size) > uint32(m.base)) {
			err = &ErrOverlap{Base: base, Size: size, With: m.base}
			return
		}
	}

	b.mappings = append(b.mappings, mapping{base: base, size: size, device: device})

	return
}

func (b *Bus) lookup(port uint16) (m *mapping, ok bool) {
	for n := range b.mappings {
		if b.mappings[n].contains(port) {
			return &b.mappings[n], true
		}
	}

	return
}

// In reads a port. Unmapped ports float high.
func (b *Bus) In(port uint16) (value uint8) {
	m, ok := b.lookup(port)
	if !ok {
		if b.Verbose {
			log.Printf("bus: in 0x%04x: unmapped", port)
		}
		return FLOATING
	}

	return m.device.In(port - m.base)
}

// Out writes a port. Writes to unmapped ports are dropped.
func (b *Bus) Out(port uint16, value uint8) {
	m, ok := b.lookup(port)
	if !ok {
		if b.Verbose {
			log.Printf("bus: out 0x%04x 0x%02x: unmapped", port, value)
		}
		return
	}

	m.device.Out(port-m.base, value)
}

// Wait parks the caller on the first mapped device that can wait.
// If none can, it returns immediately.
func (b *Bus) Wait() {
	for _, m := range b.mappings {
		if waiter, ok := m.device.(Waiter); ok {
			waiter.Wait()
			return
		}
	}
}

// Pause is called from driver busy-wait loops.
func Pause(ports Ports) {
	if waiter, ok := ports.(Waiter); ok {
		waiter.Wait()
	}
}
