package firmware

import (
	"errors"

	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

// ErrCommandUnknown indicates a command letter with no handler.
type ErrCommandUnknown byte

func (err ErrCommandUnknown) Error() string {
	return f("command '%c' unknown", byte(err))
}

// ErrCommandDuplicate indicates a command letter listed twice.
type ErrCommandDuplicate byte

func (err ErrCommandDuplicate) Error() string {
	return f("command '%c' duplicated", byte(err))
}

var (
	// ErrResetReturned is raised when a platform breaks the Reset contract.
	ErrResetReturned = errors.New(f("platform reset returned"))
)
