package config

import (
	"errors"

	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

var (
	ErrCommandUnknown   = errors.New(f("command unknown"))
	ErrCommandDuplicate = errors.New(f("command duplicated"))
	ErrBaud             = errors.New(f("baud rate must divide 115200"))
	ErrRange            = errors.New(f("out of range"))
	ErrType             = errors.New(f("wrong type"))
)

// ErrVariantUnknown indicates a variant name with no preset.
type ErrVariantUnknown string

func (err ErrVariantUnknown) Error() string {
	return f("variant '%v' unknown", string(err))
}

// ErrInvalid reports a bad configuration value.
type ErrInvalid struct {
	Field string
	Value string
	Err   error
}

func (err *ErrInvalid) Error() string {
	return f("%v = %v: %v", err.Field, err.Value, err.Err)
}

func (err *ErrInvalid) Unwrap() error {
	return err.Err
}

// ErrDefine indicates a machine define that is not a number.
type ErrDefine struct {
	Name  string
	Value string
}

func (err *ErrDefine) Error() string {
	return f("define %v '%v' is not a number", err.Name, err.Value)
}
