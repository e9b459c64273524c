package uart

import (
	"github.com/cmraible/ai-os-dev/bus"
)

// Driver programs a 16550 through an I/O port space. All transfers
// busy-wait on line status and never time out.
type Driver struct {
	Ports bus.Ports // Port space the UART lives in.
	Base  uint16    // Base port, usually COM1.
	Baud  int       // Line rate; must divide CLOCK_BAUD.
}

// NewDriver creates a driver for the UART at base.
func NewDriver(ports bus.Ports, base uint16, baud int) (drv *Driver) {
	drv = &Driver{
		Ports: ports,
		Base:  base,
		Baud:  baud,
	}

	return
}

func (drv *Driver) in(reg uint16) uint8 {
	return drv.Ports.In(drv.Base + reg)
}

func (drv *Driver) out(reg uint16, value uint8) {
	drv.Ports.Out(drv.Base+reg, value)
}

// Initialize programs the line for 8-N-1 at the configured rate, enables
// and clears the FIFOs, raises DTR, RTS and OUT2, and drains stale input.
// Calling it again leaves the UART in the same state.
func (drv *Driver) Initialize() {
	divisor, ok := Divisor(drv.Baud)
	if !ok {
		divisor = 1
	}

	drv.out(REG_IER, 0x00)
	drv.out(REG_LCR, LCR_DLAB)
	drv.out(REG_DATA, uint8(divisor&0xff))
	drv.out(REG_IER, uint8(divisor>>8))
	drv.out(REG_LCR, LCR_8N1)
	drv.out(REG_IIR, FCR_ENABLE|FCR_CLEAR_RX|FCR_CLEAR_TX|FCR_TRIGGER_14)
	drv.out(REG_MCR, MCR_DTR|MCR_RTS|MCR_OUT2)

	for drv.in(REG_LSR)&LSR_DR != 0 {
		drv.in(REG_DATA)
	}
}

// SendByte waits for the transmit holding register, then writes value.
func (drv *Driver) SendByte(value byte) {
	for drv.in(REG_LSR)&LSR_THRE == 0 {
		bus.Pause(drv.Ports)
	}
	drv.out(REG_DATA, value)
}

// RecvByte waits for a received byte and returns it.
func (drv *Driver) RecvByte() (value byte) {
	for drv.in(REG_LSR)&LSR_DR == 0 {
		bus.Pause(drv.Ports)
	}
	return drv.in(REG_DATA)
}

// SendString sends each byte of text in order.
func (drv *Driver) SendString(text string) {
	for n := range len(text) {
		drv.SendByte(text[n])
	}
}

// Flush waits until the transmitter has shifted out every byte.
func (drv *Driver) Flush() {
	for drv.in(REG_LSR)&LSR_TEMT == 0 {
		bus.Pause(drv.Ports)
	}
}
