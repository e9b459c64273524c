package client

import (
	"errors"

	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

var (
	ErrClosed = errors.New(f("line closed"))
)

// ErrTimeout indicates a token did not arrive in time.
type ErrTimeout struct {
	Token string
	Lines []string // Lines read while waiting.
}

func (err *ErrTimeout) Error() string {
	return f("timeout waiting for %q after %d lines", err.Token, len(err.Lines))
}
