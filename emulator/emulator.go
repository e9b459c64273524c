// Package emulator runs the boot monitor on a simulated PC: memory with
// the boot sector at 0x7C00, a processor model, and a 16550 whose far end
// is a host byte stream.
package emulator

import (
	"context"
	"iter"
	"log"
	"sync/atomic"

	"github.com/cmraible/ai-os-dev/bootsect"
	"github.com/cmraible/ai-os-dev/bus"
	"github.com/cmraible/ai-os-dev/config"
	"github.com/cmraible/ai-os-dev/cpu"
	"github.com/cmraible/ai-os-dev/firmware"
	"github.com/cmraible/ai-os-dev/internal"
	"github.com/cmraible/ai-os-dev/memory"
	"github.com/cmraible/ai-os-dev/uart"
)

var _emulator_defines = map[string]uint32{
	"PORT_DELAY": uint32(firmware.PORT_DELAY),
	"TEST_ADDR":  firmware.TEST_ADDR,
}

// Defines returns an iterator over every machine constant a
// configuration script may use.
func Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, seq := range []iter.Seq2[string, string]{
			internal.Defines(_emulator_defines),
			bootsect.Defines(),
			memory.Defines(),
			uart.Defines(),
		} {
			for name, value := range seq {
				if !yield(name, value) {
					return
				}
			}
		}
	}
}

// Image assembles the boot sector for a configuration.
func Image(cfg *config.Config) (image []byte, err error) {
	table, err := firmware.NewTable(cfg.Commands)
	if err != nil {
		return
	}

	texts, err := firmware.Texts(cfg)
	if err != nil {
		return
	}

	return bootsect.Assemble(table.Letters(), texts)
}

type resetRequest struct{}

type haltRequest struct{}

// platform resets by unwinding the monitor back into Run.
type platform struct{}

func (platform) Reset() {
	panic(resetRequest{})
}

// ports is the bus as the monitor sees it. Once the host halts the
// machine, the next busy-wait unwinds the monitor back into Run.
type ports struct {
	*bus.Bus
	done <-chan struct{}
}

func (p *ports) Wait() {
	p.Bus.Wait()

	select {
	case <-p.done:
		panic(haltRequest{})
	default:
	}
}

// Emulator state. Memory + CPU + bus + UART.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	Config *config.Config // Build of the monitor.
	Image  []byte         // Boot sector, reloaded on every reset.
	Memory *memory.Memory // Address space.
	Cpu    *cpu.Cpu       // Processor model.
	Bus    *bus.Bus       // Port space.
	Uart   *uart.Device   // Serial line.

	boots atomic.Int64
}

var _ firmware.Platform = platform{}
var _ bus.Waiter = (*ports)(nil)

// NewEmulator creates an emulator for a configuration, assembling its
// boot sector.
func NewEmulator(cfg *config.Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	image, err := Image(cfg)
	if err != nil {
		return
	}

	model, err := cpu.LookupModel(cfg.Cpu)
	if err != nil {
		return
	}

	proc, err := cpu.NewCpu(model)
	if err != nil {
		return
	}

	machine := &Emulator{
		Config: cfg,
		Image:  image,
		Memory: memory.NewMemory(),
		Cpu:    proc,
		Bus:    &bus.Bus{},
		Uart:   uart.NewDevice(nil),
	}

	err = machine.Bus.Map(cfg.Port, uart.REG_COUNT, machine.Uart)
	if err != nil {
		return
	}

	emu = machine

	return
}

// LoadImage replaces the boot sector. It takes effect on the next reset.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	err = bootsect.Verify(image)
	if err != nil {
		return
	}

	emu.Image = append([]byte{}, image...)

	return
}

// Boots returns how many times the monitor has been started.
func (emu *Emulator) Boots() int {
	return int(emu.boots.Load())
}

// Reset the machine: clear memory, load the boot sector, then reset the
// processor and the UART.
func (emu *Emulator) Reset() {
	emu.Memory.Clear()
	emu.Memory.Load(bootsect.LOAD_ADDR, emu.Image)
	emu.Cpu.Reset()
	emu.Uart.Reset()

	emu.Bus.Verbose = emu.Verbose
	emu.Cpu.Verbose = emu.Verbose
	emu.Uart.Verbose = emu.Verbose

	if emu.Verbose {
		log.Printf("emulator: reset, %d byte image at 0x%04x", len(emu.Image), bootsect.LOAD_ADDR)
	}
}

// Run boots the monitor, and boots it again every time it asks for a
// platform reset, until ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.Uart.Done = ctx.Done()

	p := &ports{Bus: emu.Bus, done: ctx.Done()}

	for {
		var halted bool
		halted, err = emu.boot(p)
		if err != nil {
			return
		}
		if halted {
			err = ctx.Err()
			return
		}
	}
}

// boot runs the monitor once, until it resets or halts.
func (emu *Emulator) boot(p *ports) (halted bool, err error) {
	emu.Reset()

	fw, err := firmware.New(emu.Config, p, emu.Cpu, emu.Memory, platform{})
	if err != nil {
		err = &ErrRuntime{Boot: emu.Boots(), Err: err}
		return
	}
	fw.Verbose = emu.Verbose

	defer func() {
		r := recover()
		switch r.(type) {
		case nil:
		case resetRequest:
			if emu.Verbose {
				log.Printf("emulator: platform reset")
			}
		case haltRequest:
			if emu.Verbose {
				log.Printf("emulator: halted")
			}
			halted = true
		case error:
			err = &ErrRuntime{Boot: emu.Boots(), Err: r.(error)}
		default:
			panic(r)
		}
	}()

	emu.boots.Add(1)
	fw.Boot()

	return
}
