package emulator

import (
	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

// ErrRuntime indicates the monitor failed during a boot.
type ErrRuntime struct {
	Boot int
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("boot %d: %v", err.Boot, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
