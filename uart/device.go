package uart

import (
	"io"
	"log"
	"sync"

	"github.com/cmraible/ai-os-dev/bus"
)

// Device is a register-level 16550 simulation. The machine side is the
// bus.Device register block; the host side is Write for bytes arriving on
// the line and Output for bytes the machine transmits.
//
// Transmission is instantaneous, so THRE and TEMT are always set.
type Device struct {
	Verbose bool            // If set, log register traffic.
	Output  io.Writer       // Receives transmitted bytes. Use SetOutput once running.
	Done    <-chan struct{} // When closed, Wait stops parking callers.

	mu    sync.Mutex
	rx    []byte
	ready chan struct{}

	ier uint8
	fcr uint8
	lcr uint8
	mcr uint8
	scr uint8
	dll uint8
	dlm uint8
}

var _ bus.Device = (*Device)(nil)
var _ bus.Waiter = (*Device)(nil)
var _ io.Writer = (*Device)(nil)

// NewDevice creates a powered-on UART transmitting to output.
func NewDevice(output io.Writer) (dev *Device) {
	dev = &Device{
		Output: output,
		ready:  make(chan struct{}, 1),
	}

	return
}

func (dev *Device) signal() {
	if dev.ready == nil {
		dev.ready = make(chan struct{}, 1)
	}

	select {
	case dev.ready <- struct{}{}:
	default:
	}
}

func (dev *Device) dlab() bool {
	return dev.lcr&LCR_DLAB != 0
}

func (dev *Device) loopback() bool {
	return dev.mcr&MCR_LOOP != 0
}

// Reset returns every register to its power-on value and discards
// pending input.
func (dev *Device) Reset() {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	dev.rx = nil
	dev.ier = 0
	dev.fcr = 0
	dev.lcr = 0
	dev.mcr = 0
	dev.scr = 0
	dev.dll = 0
	dev.dlm = 0
}

// SetOutput replaces the transmit sink.
func (dev *Device) SetOutput(output io.Writer) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	dev.Output = output
}

// Write queues bytes as if they arrived on the line.
func (dev *Device) Write(data []byte) (n int, err error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	dev.rx = append(dev.rx, data...)
	dev.signal()

	return len(data), nil
}

// Pending returns the number of received bytes not yet read.
func (dev *Device) Pending() int {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	return len(dev.rx)
}

// Wait parks the caller until input is pending or Done is closed.
func (dev *Device) Wait() {
	dev.mu.Lock()
	pending := len(dev.rx) > 0
	if dev.ready == nil {
		dev.ready = make(chan struct{}, 1)
	}
	ready := dev.ready
	dev.mu.Unlock()

	if pending {
		return
	}

	select {
	case <-ready:
	case <-dev.Done:
	}
}

// In reads a UART register.
func (dev *Device) In(offset uint16) (value uint8) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	switch offset {
	case REG_DATA:
		if dev.dlab() {
			value = dev.dll
		} else if len(dev.rx) > 0 {
			value = dev.rx[0]
			dev.rx = dev.rx[1:]
		}
	case REG_IER:
		if dev.dlab() {
			value = dev.dlm
		} else {
			value = dev.ier
		}
	case REG_IIR:
		value = IIR_NONE
		if dev.fcr&FCR_ENABLE != 0 {
			value |= IIR_FIFO
		}
	case REG_LCR:
		value = dev.lcr
	case REG_MCR:
		value = dev.mcr
	case REG_LSR:
		value = LSR_THRE | LSR_TEMT
		if len(dev.rx) > 0 {
			value |= LSR_DR
		}
	case REG_MSR:
		value = MSR_STATIC
		if dev.loopback() {
			// RTS->CTS, DTR->DSR, OUT1->RI, OUT2->DCD
			value = (dev.mcr&MCR_RTS)<<3 | (dev.mcr&MCR_DTR)<<5 |
				(dev.mcr&MCR_OUT1)<<4 | (dev.mcr&MCR_OUT2)<<4
		}
	case REG_SCR:
		value = dev.scr
	default:
		value = bus.FLOATING
	}

	return
}

// Out writes a UART register.
func (dev *Device) Out(offset uint16, value uint8) {
	dev.mu.Lock()

	switch offset {
	case REG_DATA:
		if dev.dlab() {
			dev.dll = value
			break
		}
		if dev.loopback() {
			dev.rx = append(dev.rx, value)
			dev.signal()
			break
		}
		output := dev.Output
		dev.mu.Unlock()
		if output != nil {
			_, err := output.Write([]byte{value})
			if err != nil && dev.Verbose {
				log.Printf("uart: output: %v", err)
			}
		}
		return
	case REG_IER:
		if dev.dlab() {
			dev.dlm = value
		} else {
			dev.ier = value & 0x0f
		}
	case REG_IIR:
		dev.fcr = value &^ (FCR_CLEAR_RX | FCR_CLEAR_TX)
		if value&FCR_CLEAR_RX != 0 {
			dev.rx = nil
		}
	case REG_LCR:
		dev.lcr = value
	case REG_MCR:
		dev.mcr = value & 0x1f
	case REG_SCR:
		dev.scr = value
	}

	if dev.Verbose {
		log.Printf("uart: out %d 0x%02x", offset, value)
	}

	dev.mu.Unlock()
}

// Divisor returns the programmed divisor latch.
func (dev *Device) Divisor() uint16 {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	return uint16(dev.dlm)<<8 | uint16(dev.dll)
}

// Baud returns the line rate implied by the divisor latch, or 0 when the
// latch has not been programmed.
func (dev *Device) Baud() int {
	divisor := dev.Divisor()
	if divisor == 0 {
		return 0
	}

	return CLOCK_BAUD / int(divisor)
}

// LineControl returns the line control register.
func (dev *Device) LineControl() uint8 {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	return dev.lcr
}

// ModemControl returns the modem control register.
func (dev *Device) ModemControl() uint8 {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	return dev.mcr
}

// FifoEnabled reports whether the FIFOs are on.
func (dev *Device) FifoEnabled() bool {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	return dev.fcr&FCR_ENABLE != 0
}
