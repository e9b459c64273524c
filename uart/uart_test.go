package uart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmraible/ai-os-dev/bus"
)

type access struct {
	Write bool
	Port  uint16
	Value uint8
}

// recorder wraps a port space and logs every access.
type recorder struct {
	bus.Ports
	log []access
}

func (r *recorder) In(port uint16) (value uint8) {
	value = r.Ports.In(port)
	r.log = append(r.log, access{Port: port, Value: value})
	return
}

func (r *recorder) Out(port uint16, value uint8) {
	r.log = append(r.log, access{Write: true, Port: port, Value: value})
	r.Ports.Out(port, value)
}

func newLine(t *testing.T) (drv *Driver, dev *Device, output *bytes.Buffer) {
	output = &bytes.Buffer{}
	dev = NewDevice(output)

	b := &bus.Bus{}
	err := b.Map(COM1, REG_COUNT, dev)
	assert.NoError(t, err)

	drv = NewDriver(b, COM1, DEFAULT_BAUD)
	return
}

func TestDivisor(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		baud    int
		divisor uint16
		ok      bool
	}){
		{115200, 1, true},
		{57600, 2, true},
		{38400, 3, true},
		{9600, 12, true},
		{110, 0, false},
		{0, 0, false},
		{230400, 0, false},
	}

	for _, entry := range table {
		divisor, ok := Divisor(entry.baud)
		assert.Equal(entry.ok, ok, entry.baud)
		assert.Equal(entry.divisor, divisor, entry.baud)
	}
}

func TestDriver_Initialize(t *testing.T) {
	assert := assert.New(t)

	dev := NewDevice(nil)
	b := &bus.Bus{}
	assert.NoError(b.Map(COM1, REG_COUNT, dev))
	rec := &recorder{Ports: b}

	drv := NewDriver(rec, COM1, 38400)
	drv.Initialize()

	expected := []access{
		{true, COM1 + REG_IER, 0x00},
		{true, COM1 + REG_LCR, LCR_DLAB},
		{true, COM1 + REG_DATA, 0x03},
		{true, COM1 + REG_IER, 0x00},
		{true, COM1 + REG_LCR, LCR_8N1},
		{true, COM1 + REG_IIR, 0xc7},
		{true, COM1 + REG_MCR, 0x0b},
		{false, COM1 + REG_LSR, LSR_THRE | LSR_TEMT},
	}
	assert.Equal(expected, rec.log)

	assert.Equal(uint16(3), dev.Divisor())
	assert.Equal(38400, dev.Baud())
	assert.Equal(LCR_8N1, dev.LineControl())
	assert.Equal(MCR_DTR|MCR_RTS|MCR_OUT2, dev.ModemControl())
	assert.True(dev.FifoEnabled())
}

func TestDriver_Initialize_Idempotent(t *testing.T) {
	assert := assert.New(t)

	drv, dev, _ := newLine(t)

	drv.Initialize()
	state := []any{dev.Divisor(), dev.LineControl(), dev.ModemControl(), dev.FifoEnabled()}

	drv.Initialize()
	again := []any{dev.Divisor(), dev.LineControl(), dev.ModemControl(), dev.FifoEnabled()}

	assert.Equal(state, again)
	assert.Equal(DEFAULT_BAUD, dev.Baud())
}

func TestDriver_Initialize_Drains(t *testing.T) {
	assert := assert.New(t)

	drv, dev, _ := newLine(t)

	dev.Write([]byte("stale"))
	assert.Equal(5, dev.Pending())

	drv.Initialize()
	assert.Equal(0, dev.Pending())
}

func TestDriver_Send(t *testing.T) {
	assert := assert.New(t)

	drv, _, output := newLine(t)
	drv.Initialize()

	drv.SendByte('>')
	drv.SendString("PONG\r\n")
	drv.SendString("")
	drv.Flush()

	assert.Equal(">PONG\r\n", output.String())
}

func TestDriver_Recv(t *testing.T) {
	assert := assert.New(t)

	drv, dev, _ := newLine(t)
	drv.Initialize()

	dev.Write([]byte("pi"))
	assert.Equal(byte('p'), drv.RecvByte())
	assert.Equal(byte('i'), drv.RecvByte())
	assert.Equal(0, dev.Pending())
}

func TestDriver_Recv_Blocks(t *testing.T) {
	assert := assert.New(t)

	drv, dev, _ := newLine(t)
	drv.Initialize()

	got := make(chan byte)
	go func() {
		got <- drv.RecvByte()
	}()

	select {
	case <-got:
		t.Fatal("RecvByte returned without input")
	case <-time.After(20 * time.Millisecond):
	}

	dev.Write([]byte{'c'})

	select {
	case value := <-got:
		assert.Equal(byte('c'), value)
	case <-time.After(time.Second):
		t.Fatal("RecvByte did not see input")
	}
}

func TestDevice_Loopback(t *testing.T) {
	assert := assert.New(t)

	drv, dev, output := newLine(t)
	drv.Initialize()

	dev.Out(REG_MCR, MCR_LOOP|MCR_RTS|MCR_OUT2)
	assert.Equal(uint8(0x90), dev.In(REG_MSR))

	drv.SendByte('x')
	assert.Equal(byte('x'), drv.RecvByte())
	assert.Equal(0, output.Len())
}

func TestDevice_Registers(t *testing.T) {
	assert := assert.New(t)

	dev := NewDevice(nil)

	assert.Equal(IIR_NONE, dev.In(REG_IIR))
	dev.Out(REG_IIR, FCR_ENABLE)
	assert.Equal(IIR_NONE|IIR_FIFO, dev.In(REG_IIR))

	dev.Out(REG_SCR, 0xa5)
	assert.Equal(uint8(0xa5), dev.In(REG_SCR))

	dev.Out(REG_IER, 0xff)
	assert.Equal(uint8(0x0f), dev.In(REG_IER))

	assert.Equal(MSR_STATIC, dev.In(REG_MSR))
	assert.Equal(LSR_THRE|LSR_TEMT, dev.In(REG_LSR))

	// Data reads with nothing pending return zero.
	assert.Equal(uint8(0), dev.In(REG_DATA))

	dev.Write([]byte{0x42})
	assert.Equal(LSR_THRE|LSR_TEMT|LSR_DR, dev.In(REG_LSR))

	dev.Reset()
	assert.Equal(0, dev.Pending())
	assert.Equal(uint8(0), dev.In(REG_SCR))
	assert.Equal(0, dev.Baud())
}

func TestDevice_Wait_Done(t *testing.T) {
	done := make(chan struct{})
	dev := NewDevice(nil)
	dev.Done = done

	returned := make(chan struct{})
	go func() {
		dev.Wait()
		close(returned)
	}()

	close(done)

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Wait ignored Done")
	}
}
