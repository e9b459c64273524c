package firmware

import (
	"fmt"

	"github.com/cmraible/ai-os-dev/config"
)

// Wire tokens. These are protocol, not prose, and are never translated.
const (
	CRLF = "\r\n"

	MSG_NAME       = "AI-OS Bootloader"
	MSG_READY      = "Ready for commands"
	MSG_PONG       = "PONG"
	MSG_HELP       = "Commands:"
	MSG_NO_CPUID   = "CPUID not supported"
	MSG_VENDOR     = "Vendor: "
	MSG_FAMILY     = "Family: "
	MSG_MODEL      = "Model: "
	MSG_STEPPING   = "Stepping: "
	MSG_TESTING    = "Running self tests..."
	MSG_TEST_PASS  = "All tests passed"
	MSG_TEST_FAIL  = "FAIL: "
	MSG_REBOOT     = "Rebooting..."
	MSG_UNKNOWN    = "ERROR: Unknown command"
	MSG_ECHO_READY = "TEST_BOOT_OK"
	MSG_ECHO_QUIT  = "QUIT_OK"
	ECHO_QUIT      = byte('q')
)

func banner(cfg *config.Config) string {
	return CRLF + MSG_NAME + " v" + cfg.Version + CRLF + MSG_READY + CRLF
}

func infoText(cfg *config.Config) string {
	return MSG_NAME + CRLF +
		"Version: " + cfg.Version + CRLF +
		fmt.Sprintf("Memory: %dKB", cfg.MemoryKB) + CRLF
}

func helpText(table *Table) (text string) {
	text = MSG_HELP + CRLF
	for _, entry := range table.Entries {
		text += "  " + string(entry.Letter) + " - " + entry.Label + CRLF
	}

	return
}

// Texts returns every static string a build of the monitor carries, in
// the order they are laid out in the boot sector.
func Texts(cfg *config.Config) (texts []string, err error) {
	table, err := NewTable(cfg.Commands)
	if err != nil {
		return
	}

	texts = []string{banner(cfg), MSG_UNKNOWN + CRLF}

	for _, entry := range table.Entries {
		switch entry.Command {
		case COMMAND_PING:
			texts = append(texts, MSG_PONG+CRLF)
		case COMMAND_INFO:
			texts = append(texts, infoText(cfg))
		case COMMAND_HELP:
			texts = append(texts, helpText(table))
		case COMMAND_CPU:
			texts = append(texts, MSG_NO_CPUID+CRLF, MSG_VENDOR, MSG_FAMILY, MSG_MODEL, MSG_STEPPING)
		case COMMAND_TEST:
			texts = append(texts, MSG_TESTING+CRLF, MSG_TEST_PASS+CRLF, MSG_TEST_FAIL)
			for _, check := range _checks {
				texts = append(texts, check.Name)
			}
		case COMMAND_REBOOT:
			texts = append(texts, MSG_REBOOT+CRLF)
		}
	}

	if cfg.Diagnostic {
		texts = append(texts, MSG_ECHO_READY+CRLF, MSG_ECHO_QUIT+CRLF)
	}

	return
}
