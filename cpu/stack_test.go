package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ram map[uint32]uint8

func (r ram) Read8(addr uint32) uint8 {
	return r[addr]
}

func (r ram) Write8(addr uint32, value uint8) {
	r[addr] = value
}

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	mem := ram{}
	s := NewStack(mem, 0, 0x7c00)
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(0x1234)
	assert.False(s.Empty())
	assert.Equal(uint16(0x7bfe), s.SP)
	assert.Equal(uint8(0x34), mem[0x7bfe])
	assert.Equal(uint8(0x12), mem[0x7bff])
}

func TestStack_Segment(t *testing.T) {
	assert := assert.New(t)

	mem := ram{}
	s := NewStack(mem, 0x07c0, 0x0200)

	s.Push(0xabcd)
	assert.Equal(uint8(0xcd), mem[0x7dfe])
	assert.Equal(uint8(0xab), mem[0x7dff])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(ram{}, 0, 0x7c00)
	s.Push(0x1234)
	s.Push(0xabcd)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0xabcd), val)

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x1234), val)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(ram{}, 0, 0x7c00)
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)
	assert.Equal(uint16(0x7c00), s.SP)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(ram{}, 0, 0x7c00)
	s.Push(0x1234)
	s.Push(0xabcd)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xabcd), val)
	assert.Equal(uint16(0x7bfc), s.SP)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(ram{}, 0, 0x7c00)

	for i := 0; i < STACK_LIMIT/2; i++ {
		assert.False(s.Full())
		s.Push(uint16(i))
	}

	assert.True(s.Full())
	assert.False(s.Empty())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(ram{}, 0, 0x7c00)
	s.Push(0x1234)
	s.Push(0xabcd)

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(uint16(0x7c00), s.SP)
}
