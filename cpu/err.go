package cpu

import (
	"errors"

	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

var (
	ErrModelVendor = errors.New(f("vendor string must be 12 bytes"))
)

// ErrModelUnknown indicates a CPU model name with no preset.
type ErrModelUnknown string

func (err ErrModelUnknown) Error() string {
	return f("cpu model '%v' unknown", string(err))
}
