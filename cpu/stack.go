package cpu

const (
	STACK_LIMIT = 0x100 // Bytes of stack the boot code may use.
)

// Memory is the byte interface the stack lives in.
type Memory interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
}

// Stack is the real-mode SS:SP word stack. It grows down from Top.
type Stack struct {
	Memory  Memory
	Segment uint16 // SS
	Top     uint16 // Initial SP
	SP      uint16
}

// NewStack creates an empty stack at segment:top.
func NewStack(mem Memory, segment uint16, top uint16) (s *Stack) {
	s = &Stack{
		Memory:  mem,
		Segment: segment,
		Top:     top,
		SP:      top,
	}

	return
}

func (s *Stack) addr(sp uint16) uint32 {
	return uint32(s.Segment)<<4 + uint32(sp)
}

func (s *Stack) Push(value uint16) {
	s.SP -= 2
	s.Memory.Write8(s.addr(s.SP), uint8(value))
	s.Memory.Write8(s.addr(s.SP+1), uint8(value>>8))
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.SP += 2
	}
	return
}

func (s *Stack) Empty() bool {
	return s.SP == s.Top
}

func (s *Stack) Full() bool {
	return s.Top-s.SP >= STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	value = uint16(s.Memory.Read8(s.addr(s.SP))) | uint16(s.Memory.Read8(s.addr(s.SP+1)))<<8
	return value, true
}

func (s *Stack) Reset() {
	s.SP = s.Top
}
