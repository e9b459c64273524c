package firmware

import (
	"strings"
)

// Command identifies a monitor command handler.
type Command int

//go:generate go tool stringer -linecomment -type=Command
const (
	COMMAND_PING   = Command(0) // ping
	COMMAND_INFO   = Command(1) // info
	COMMAND_HELP   = Command(2) // help
	COMMAND_CPU    = Command(3) // cpu
	COMMAND_MEMORY = Command(4) // memory
	COMMAND_TEST   = Command(5) // test
	COMMAND_REBOOT = Command(6) // reboot
)

// Handler runs a command. Handlers report only through serial output.
type Handler func(fw *Firmware)

// Entry binds a command letter to its handler.
type Entry struct {
	Letter  byte
	Command Command
	Label   string // Shown by help.
	Handler Handler
}

// Every command the monitor can be built with, in table order.
var _entries = [...]Entry{
	{'p', COMMAND_PING, "Ping", (*Firmware).ping},
	{'i', COMMAND_INFO, "Info", (*Firmware).info},
	{'h', COMMAND_HELP, "Help", (*Firmware).help},
	{'c', COMMAND_CPU, "CPU info", (*Firmware).cpuInfo},
	{'m', COMMAND_MEMORY, "Memory dump", (*Firmware).memoryDump},
	{'t', COMMAND_TEST, "Self test", (*Firmware).selfTest},
	{'r', COMMAND_REBOOT, "Reboot", (*Firmware).reboot},
}

// Table is the immutable command table of one build.
type Table struct {
	Entries []Entry
}

// NewTable selects the entries for a set of command letters. Entries keep
// table order whatever the order of letters.
func NewTable(letters string) (table *Table, err error) {
	for n := range len(letters) {
		letter := letters[n]
		if strings.IndexByte(letters[:n], letter) >= 0 {
			err = ErrCommandDuplicate(letter)
			return
		}
		if _, ok := lookup(_entries[:], letter); !ok {
			err = ErrCommandUnknown(letter)
			return
		}
	}

	table = &Table{}
	for _, entry := range _entries {
		if strings.IndexByte(letters, entry.Letter) >= 0 {
			table.Entries = append(table.Entries, entry)
		}
	}

	return
}

func lookup(entries []Entry, letter byte) (entry *Entry, ok bool) {
	for n := range entries {
		if entries[n].Letter == letter {
			return &entries[n], true
		}
	}

	return
}

// Lookup scans the table in order; the first match wins.
func (table *Table) Lookup(letter byte) (entry *Entry, ok bool) {
	return lookup(table.Entries, letter)
}

// Letters returns the command letters in table order.
func (table *Table) Letters() string {
	letters := make([]byte, len(table.Entries))
	for n, entry := range table.Entries {
		letters[n] = entry.Letter
	}

	return string(letters)
}
