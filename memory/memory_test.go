package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	mem.Write8(0x7c00, 0xfa)
	assert.Equal(uint8(0xfa), mem.Read8(0x7c00))

	mem.Write16(0x7c01, 0xc031)
	assert.Equal([]byte{0xfa, 0x31, 0xc0}, mem.Read(0x7c00, 3))
	assert.Equal(uint16(0xc031), mem.Read16(0x7c01))

	// A20 off: addresses wrap at 1MiB.
	mem.Write8(SIZE+0x10, 0x99)
	assert.Equal(uint8(0x99), mem.Read8(0x10))

	mem.Clear()
	assert.Equal(uint8(0), mem.Read8(0x7c00))
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()
	mem.Load(SIZE-1, []byte{1, 2})

	assert.Equal(uint8(1), mem.Read8(SIZE-1))
	assert.Equal(uint8(2), mem.Read8(0))
}

func TestMemory_Stick(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	table := [](struct {
		name  string
		and   uint8
		or    uint8
		write uint8
		read  uint8
	}){
		{"bit0_low", 0xfe, 0x00, 0x55, 0x54},
		{"bit7_high", 0xff, 0x80, 0x55, 0xd5},
		{"dead", 0x00, 0x00, 0xaa, 0x00},
		{"transparent", 0xff, 0x00, 0xaa, 0xaa},
	}

	for _, entry := range table {
		mem.Stick(SCRATCH_ADDR, entry.and, entry.or)
		mem.Write8(SCRATCH_ADDR, entry.write)
		assert.Equal(entry.read, mem.Read8(SCRATCH_ADDR), entry.name)
	}

	mem.Unstick()
	assert.Equal(uint8(0xaa), mem.Read8(SCRATCH_ADDR))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for name, value := range Defines() {
		defines[name] = value
	}

	assert.Equal("0x500", defines["SCRATCH_ADDR"])
	assert.Equal("0x100000", defines["MEMORY_SIZE"])
}
