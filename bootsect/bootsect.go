// Package bootsect builds and checks 512 byte boot sector images.
package bootsect

import (
	"errors"
	"iter"

	"github.com/cmraible/ai-os-dev/internal"
)

const (
	SECTOR_SIZE      = 512    // Exact size of an image.
	SIGNATURE_OFFSET = 510    // Offset of the boot signature.
	PAYLOAD_SIZE     = 510    // Bytes available for code and data.
	SIGNATURE        = 0xaa55 // Boot signature, little-endian on disk.
	LOAD_ADDR        = 0x7c00 // Where the firmware loads the sector.
)

// Stub is the real-mode prologue every image starts with.
//
//	cli
//	xor ax, ax
//	mov ds, ax
//	mov es, ax
//	mov ss, ax
//	mov sp, 0x7c00
//	sti
var Stub = []byte{
	0xfa,
	0x31, 0xc0,
	0x8e, 0xd8,
	0x8e, 0xc0,
	0x8e, 0xd0,
	0xbc, 0x00, 0x7c,
	0xfb,
}

// Defines returns the image constants for configuration scripts.
func Defines() iter.Seq2[string, string] {
	return internal.Defines(map[string]uint32{
		"SECTOR_SIZE":    SECTOR_SIZE,
		"PAYLOAD_SIZE":   PAYLOAD_SIZE,
		"BOOT_LOAD_ADDR": LOAD_ADDR,
	})
}

// Build pads payload to PAYLOAD_SIZE and appends the signature.
func Build(payload []byte) (image []byte, err error) {
	if len(payload) > PAYLOAD_SIZE {
		err = &ErrImageOverflow{Size: len(payload)}
		return
	}

	image = make([]byte, SECTOR_SIZE)
	copy(image, payload)
	image[SIGNATURE_OFFSET] = uint8(SIGNATURE & 0xff)
	image[SIGNATURE_OFFSET+1] = uint8(SIGNATURE >> 8)

	return
}

// Verify checks the size and signature of an image.
func Verify(image []byte) (err error) {
	if len(image) != SECTOR_SIZE {
		err = &ErrImageSize{Size: len(image)}
		return
	}

	if image[SIGNATURE_OFFSET] != uint8(SIGNATURE&0xff) || image[SIGNATURE_OFFSET+1] != uint8(SIGNATURE>>8) {
		err = ErrSignature
		return
	}

	return
}

// Assemble lays out the stub, the NUL terminated command letters and each
// NUL terminated text, then builds the image.
func Assemble(letters string, texts []string) (image []byte, err error) {
	payload := append([]byte{}, Stub...)
	payload = append(payload, letters...)
	payload = append(payload, 0)
	for _, text := range texts {
		payload = append(payload, text...)
		payload = append(payload, 0)
	}

	image, err = Build(payload)
	if err != nil {
		var overflow *ErrImageOverflow
		if errors.As(err, &overflow) {
			overflow.Texts = len(texts)
		}
	}

	return
}
