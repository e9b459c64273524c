// Package config selects which monitor commands are built in and how the
// machine is set up.
//
// A configuration is a Starlark script. Machine constants (BOOT_LOAD_ADDR,
// COM1, SECTOR_SIZE, ...) and the variant command sets (FULL, MINIMAL,
// MEMORY, CPU) are predeclared. Every global is optional:
//
//	variant = "minimal"           # start from a preset
//	commands = MINIMAL + "c"      # or a list: ["p", "i", "h"]
//	baud = 38400
//	port = COM1
//	dump_start = BOOT_LOAD_ADDR
//	dump_length = 64
//	cpu = "core2duo"
//	version = "0.1"
//	memory_kb = 640
//	reboot_delay = 0x4000
//	diagnostic = False
package config

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/cmraible/ai-os-dev/bootsect"
	"github.com/cmraible/ai-os-dev/cpu"
	"github.com/cmraible/ai-os-dev/memory"
	"github.com/cmraible/ai-os-dev/uart"
)

const (
	COMMAND_LETTERS = "pihcmtr" // Every command the monitor knows, in table order.
	DEFAULT_VARIANT = "full"
	DUMP_MAX        = bootsect.SECTOR_SIZE
)

// Variants maps preset names to their command letters.
var Variants = map[string]string{
	"full":    "pihcmtr",
	"minimal": "pihtr",
	"memory":  "pihmtr",
	"cpu":     "pihctr",
}

// Config is one build of the monitor.
type Config struct {
	Variant     string // Preset the commands came from.
	Commands    string // Command letters compiled in.
	Port        uint16 // UART base port.
	Baud        int    // Line rate.
	DumpStart   uint32 // First byte of the memory dump window.
	DumpLength  int    // Bytes in the memory dump window.
	Cpu         string // Simulated CPU model.
	Version     string // Reported by the banner and info.
	MemoryKB    int    // Reported by info.
	RebootDelay int    // Delay loop iterations before reset.
	Diagnostic  bool   // Run the echo diagnostic before the command loop.
}

// Default returns the full variant.
func Default() (cfg *Config) {
	cfg, _ = ForVariant(DEFAULT_VARIANT)
	return
}

// ForVariant returns the defaults for a preset.
func ForVariant(name string) (cfg *Config, err error) {
	commands, ok := Variants[name]
	if !ok {
		err = ErrVariantUnknown(name)
		return
	}

	cfg = &Config{
		Variant:     name,
		Commands:    commands,
		Port:        uart.COM1,
		Baud:        uart.DEFAULT_BAUD,
		DumpStart:   bootsect.LOAD_ADDR,
		DumpLength:  64,
		Cpu:         cpu.DEFAULT_MODEL,
		Version:     "0.1",
		MemoryKB:    memory.CONVENTIONAL_KB,
		RebootDelay: 0x4000,
	}

	return
}

// Has reports whether a command letter is compiled in.
func (cfg *Config) Has(letter byte) bool {
	return strings.IndexByte(cfg.Commands, letter) >= 0
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	seen := map[rune]bool{}
	for _, letter := range cfg.Commands {
		if !strings.ContainsRune(COMMAND_LETTERS, letter) {
			return &ErrInvalid{Field: "commands", Value: string(letter), Err: ErrCommandUnknown}
		}
		if seen[letter] {
			return &ErrInvalid{Field: "commands", Value: string(letter), Err: ErrCommandDuplicate}
		}
		seen[letter] = true
	}

	if _, ok := uart.Divisor(cfg.Baud); !ok {
		return &ErrInvalid{Field: "baud", Value: strconv.Itoa(cfg.Baud), Err: ErrBaud}
	}

	if cfg.DumpLength < 1 || cfg.DumpLength > DUMP_MAX {
		return &ErrInvalid{Field: "dump_length", Value: strconv.Itoa(cfg.DumpLength), Err: ErrRange}
	}

	if uint64(cfg.DumpStart)+uint64(cfg.DumpLength) > uint64(memory.SIZE) {
		return &ErrInvalid{Field: "dump_start", Value: fmt.Sprintf("0x%x", cfg.DumpStart), Err: ErrRange}
	}

	if _, err = cpu.LookupModel(cfg.Cpu); err != nil {
		return &ErrInvalid{Field: "cpu", Value: cfg.Cpu, Err: err}
	}

	if cfg.MemoryKB < 0 || cfg.MemoryKB > memory.CONVENTIONAL_KB {
		return &ErrInvalid{Field: "memory_kb", Value: strconv.Itoa(cfg.MemoryKB), Err: ErrRange}
	}

	return
}

func predeclared(defines iter.Seq2[string, string]) (pred starlark.StringDict, err error) {
	pred = starlark.StringDict{}
	if defines == nil {
		defines = func(yield func(string, string) bool) {}
	}

	for name, value := range defines {
		var value64 uint64
		value64, err = strconv.ParseUint(value, 0, 32)
		if err != nil {
			err = &ErrDefine{Name: name, Value: value}
			return
		}
		pred[name] = starlark.MakeUint64(value64)
	}

	for _, name := range slices.Sorted(maps.Keys(Variants)) {
		pred[strings.ToUpper(name)] = starlark.String(Variants[name])
	}

	return
}

// Load executes a configuration script. src is anything
// starlark.ExecFileOptions accepts: nil to read filename, a string, a
// []byte or an io.Reader.
func Load(filename string, src any, defines iter.Seq2[string, string]) (cfg *Config, err error) {
	pred, err := predeclared(defines)
	if err != nil {
		return
	}

	thread := &starlark.Thread{Name: "config"}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		return
	}

	variant := DEFAULT_VARIANT
	if value, ok := globals["variant"]; ok {
		str, ok := starlark.AsString(value)
		if !ok {
			err = &ErrInvalid{Field: "variant", Value: value.String(), Err: ErrType}
			return
		}
		variant = str
	}

	cfg, err = ForVariant(variant)
	if err != nil {
		return
	}

	err = cfg.apply(globals)
	if err != nil {
		return
	}

	err = cfg.Validate()

	return
}

func (cfg *Config) apply(globals starlark.StringDict) (err error) {
	if value, ok := globals["commands"]; ok {
		cfg.Commands, err = asLetters(value)
		if err != nil {
			return
		}
	}

	ints := []struct {
		name string
		set  func(int64)
	}{
		{"baud", func(v int64) { cfg.Baud = int(v) }},
		{"port", func(v int64) { cfg.Port = uint16(v) }},
		{"dump_start", func(v int64) { cfg.DumpStart = uint32(v) }},
		{"dump_length", func(v int64) { cfg.DumpLength = int(v) }},
		{"memory_kb", func(v int64) { cfg.MemoryKB = int(v) }},
		{"reboot_delay", func(v int64) { cfg.RebootDelay = int(v) }},
	}
	for _, entry := range ints {
		value, ok := globals[entry.name]
		if !ok {
			continue
		}
		var v int64
		v, err = asInt(entry.name, value)
		if err != nil {
			return
		}
		entry.set(v)
	}

	strs := []struct {
		name string
		set  func(string)
	}{
		{"cpu", func(v string) { cfg.Cpu = v }},
		{"version", func(v string) { cfg.Version = v }},
	}
	for _, entry := range strs {
		value, ok := globals[entry.name]
		if !ok {
			continue
		}
		str, ok := starlark.AsString(value)
		if !ok {
			return &ErrInvalid{Field: entry.name, Value: value.String(), Err: ErrType}
		}
		entry.set(str)
	}

	if value, ok := globals["diagnostic"]; ok {
		b, ok := value.(starlark.Bool)
		if !ok {
			return &ErrInvalid{Field: "diagnostic", Value: value.String(), Err: ErrType}
		}
		cfg.Diagnostic = bool(b)
	}

	return
}

func asInt(name string, value starlark.Value) (v int64, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = &ErrInvalid{Field: name, Value: value.String(), Err: ErrType}
		return
	}

	v, ok = st_int.Int64()
	if !ok || v < 0 || v > 0xffffffff {
		err = &ErrInvalid{Field: name, Value: value.String(), Err: ErrRange}
		return
	}

	return
}

func asLetters(value starlark.Value) (letters string, err error) {
	if str, ok := starlark.AsString(value); ok {
		return str, nil
	}

	iterable, ok := value.(starlark.Iterable)
	if !ok {
		err = &ErrInvalid{Field: "commands", Value: value.String(), Err: ErrType}
		return
	}

	it := iterable.Iterate()
	defer it.Done()

	var item starlark.Value
	for it.Next(&item) {
		str, ok := starlark.AsString(item)
		if !ok || len(str) != 1 {
			err = &ErrInvalid{Field: "commands", Value: item.String(), Err: ErrType}
			return
		}
		letters += str
	}

	return
}
