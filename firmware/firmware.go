// Package firmware is the boot monitor: a flat dispatch loop that reads
// one byte commands from the UART and runs fixed handlers.
//
// The monitor has a single state, awaiting a command. Every handler runs
// to completion and returns to it, except reboot, which asks the platform
// for a reset and never returns.
package firmware

import (
	"log"

	"github.com/cmraible/ai-os-dev/bootsect"
	"github.com/cmraible/ai-os-dev/bus"
	"github.com/cmraible/ai-os-dev/config"
	"github.com/cmraible/ai-os-dev/cpu"
	"github.com/cmraible/ai-os-dev/uart"
)

const (
	PORT_DELAY = uint16(0x80) // POST code port, written for I/O delays.
)

// Platform is what the embedding host provides.
type Platform interface {
	// Reset restarts the machine. It never returns.
	Reset()
}

// Firmware is the monitor state. It owns no hardware beyond what it is
// handed.
type Firmware struct {
	Verbose bool // If set, log each dispatched command.

	Config   *config.Config
	Uart     *uart.Driver
	Ports    bus.Ports
	Cpu      cpu.Processor
	Memory   cpu.Memory
	Stack    *cpu.Stack
	Platform Platform
	Table    *Table
}

// New builds the monitor for a configuration.
func New(cfg *config.Config, ports bus.Ports, proc cpu.Processor, mem cpu.Memory, platform Platform) (fw *Firmware, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	table, err := NewTable(cfg.Commands)
	if err != nil {
		return
	}

	fw = &Firmware{
		Config:   cfg,
		Uart:     uart.NewDriver(ports, cfg.Port, cfg.Baud),
		Ports:    ports,
		Cpu:      proc,
		Memory:   mem,
		Stack:    cpu.NewStack(mem, 0, bootsect.LOAD_ADDR),
		Platform: platform,
		Table:    table,
	}

	return
}

// Start initializes the UART and prints the banner.
func (fw *Firmware) Start() {
	fw.Uart.Initialize()
	fw.Uart.SendString(banner(fw.Config))

	if fw.Config.Diagnostic {
		fw.Echo()
	}
}

// Boot runs the monitor. It never returns.
func (fw *Firmware) Boot() {
	fw.Start()

	for {
		fw.Step()
	}
}

// Step waits for one command byte and dispatches it.
func (fw *Firmware) Step() {
	fw.Dispatch(fw.Uart.RecvByte())
}

// Dispatch runs the handler bound to letter, or reports an unknown
// command.
func (fw *Firmware) Dispatch(letter byte) {
	entry, ok := fw.Table.Lookup(letter)
	if !ok {
		if fw.Verbose {
			log.Printf("firmware: 0x%02x: unknown", letter)
		}
		fw.unknown()
		return
	}

	if fw.Verbose {
		log.Printf("firmware: '%c': %v", letter, entry.Command)
	}

	entry.Handler(fw)
}

// Echo is the line diagnostic: every byte comes back on its own line
// until 'q'.
func (fw *Firmware) Echo() {
	fw.Uart.SendString(MSG_ECHO_READY + CRLF)

	for {
		letter := fw.Uart.RecvByte()
		if letter == ECHO_QUIT {
			fw.Uart.SendString(MSG_ECHO_QUIT + CRLF)
			return
		}
		fw.Uart.SendByte(letter)
		fw.Uart.SendString(CRLF)
	}
}
