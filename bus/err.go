package bus

import (
	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

// ErrRange indicates a mapping that does not fit the port space.
type ErrRange struct {
	Base uint16
	Size uint16
}

func (err *ErrRange) Error() string {
	return f("port range 0x%04x+%d invalid", err.Base, err.Size)
}

// ErrOverlap indicates a mapping that collides with an existing one.
type ErrOverlap struct {
	Base uint16
	Size uint16
	With uint16
}

func (err *ErrOverlap) Error() string {
	return f("port range 0x%04x+%d overlaps device at 0x%04x", err.Base, err.Size, err.With)
}
