// Package uart drives and simulates a 16550-compatible serial controller.
//
// The Driver is the only code that touches UART registers. The Device is a
// register-level simulation of the controller whose host side is a plain
// byte stream.
package uart

import (
	"iter"

	"github.com/cmraible/ai-os-dev/internal"
)

// Standard PC serial port bases.
const (
	COM1 = uint16(0x3f8)
	COM2 = uint16(0x2f8)
	COM3 = uint16(0x3e8)
	COM4 = uint16(0x2e8)
)

// Register offsets from the port base.
const (
	REG_DATA  = uint16(0) // RBR (read), THR (write), DLL when DLAB is set.
	REG_IER   = uint16(1) // Interrupt enable, DLM when DLAB is set.
	REG_IIR   = uint16(2) // Interrupt identification (read), FCR (write).
	REG_LCR   = uint16(3) // Line control.
	REG_MCR   = uint16(4) // Modem control.
	REG_LSR   = uint16(5) // Line status.
	REG_MSR   = uint16(6) // Modem status.
	REG_SCR   = uint16(7) // Scratch.
	REG_COUNT = uint16(8) // Size of the register block.
)

const (
	LCR_WORD_8 = uint8(0x03) // 8 data bits.
	LCR_STOP_2 = uint8(0x04) // 2 stop bits (1.5 for 5 bit words).
	LCR_PARITY = uint8(0x08) // Parity enable.
	LCR_DLAB   = uint8(0x80) // Divisor latch access.
	LCR_8N1    = LCR_WORD_8  // 8 data bits, no parity, 1 stop bit.

	FCR_ENABLE     = uint8(0x01) // Enable FIFOs.
	FCR_CLEAR_RX   = uint8(0x02) // Clear receive FIFO.
	FCR_CLEAR_TX   = uint8(0x04) // Clear transmit FIFO.
	FCR_TRIGGER_14 = uint8(0xc0) // Receive interrupt at 14 bytes.

	MCR_DTR  = uint8(0x01) // Data terminal ready.
	MCR_RTS  = uint8(0x02) // Request to send.
	MCR_OUT1 = uint8(0x04) // Auxiliary output 1.
	MCR_OUT2 = uint8(0x08) // Auxiliary output 2 (IRQ gate on PCs).
	MCR_LOOP = uint8(0x10) // Loopback.

	LSR_DR   = uint8(0x01) // Data ready.
	LSR_OE   = uint8(0x02) // Overrun error.
	LSR_THRE = uint8(0x20) // Transmit holding register empty.
	LSR_TEMT = uint8(0x40) // Transmitter empty.

	IIR_NONE   = uint8(0x01) // No interrupt pending.
	IIR_FIFO   = uint8(0xc0) // FIFOs enabled.
	MSR_STATIC = uint8(0xb0) // DCD, DSR and CTS asserted by the far end.
)

const (
	CLOCK_BAUD   = 115200 // Baud rate at divisor 1 (1.8432MHz / 16).
	DEFAULT_BAUD = 115200 // Canonical line rate.
	FIFO_DEPTH   = 16     // Hardware receive FIFO depth.
)

// Divisor returns the divisor latch value for a baud rate.
func Divisor(baud int) (divisor uint16, ok bool) {
	if baud <= 0 || baud > CLOCK_BAUD || CLOCK_BAUD%baud != 0 {
		return
	}

	return uint16(CLOCK_BAUD / baud), true
}

// Defines returns the port constants for configuration scripts.
func Defines() iter.Seq2[string, string] {
	return internal.Defines(map[string]uint32{
		"COM1":         uint32(COM1),
		"COM2":         uint32(COM2),
		"COM3":         uint32(COM3),
		"COM4":         uint32(COM4),
		"DEFAULT_BAUD": DEFAULT_BAUD,
	})
}
