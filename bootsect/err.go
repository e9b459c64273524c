package bootsect

import (
	"errors"

	"github.com/cmraible/ai-os-dev/translate"
)

var f = translate.From

var (
	ErrSignature = errors.New(f("boot signature missing"))
)

// ErrImageOverflow indicates a payload larger than the sector allows.
type ErrImageOverflow struct {
	Size  int // Payload size.
	Texts int // Number of texts in an assembled payload.
}

func (err *ErrImageOverflow) Error() string {
	return f("payload %d bytes exceeds %d byte budget by %d", err.Size, PAYLOAD_SIZE, err.Size-PAYLOAD_SIZE)
}

// ErrImageSize indicates an image that is not exactly one sector.
type ErrImageSize struct {
	Size int
}

func (err *ErrImageSize) Error() string {
	return f("image is %d bytes, not %d", err.Size, SECTOR_SIZE)
}
