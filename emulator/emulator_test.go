package emulator

import (
	"bytes"
	"context"
	"maps"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmraible/ai-os-dev/bootsect"
	"github.com/cmraible/ai-os-dev/config"
	"github.com/cmraible/ai-os-dev/uart"
)

const (
	WAIT_FOR  = 2 * time.Second
	WAIT_TICK = 5 * time.Millisecond
)

// lockedBuffer collects transmitted bytes from the machine goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (lb *lockedBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.Write(p)
}

func (lb *lockedBuffer) String() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.buf.String()
}

type machine struct {
	emu    *Emulator
	output *lockedBuffer
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, cfg *config.Config) (m *machine) {
	emu, err := NewEmulator(cfg)
	require.NoError(t, err)

	m = &machine{
		emu:    emu,
		output: &lockedBuffer{},
		done:   make(chan error, 1),
	}
	emu.Uart.SetOutput(m.output)

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())
	go func() {
		m.done <- emu.Run(ctx)
	}()

	t.Cleanup(m.stop)

	m.waitFor(t, "Ready for commands\r\n", 1)

	return
}

func (m *machine) stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.cancel = nil
	<-m.done
}

func (m *machine) waitFor(t *testing.T, token string, count int) {
	assert.Eventually(t, func() bool {
		return strings.Count(m.output.String(), token) >= count
	}, WAIT_FOR, WAIT_TICK, "waiting for %q x%d in %q", token, count, m.output.String())
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := maps.Collect(Defines())

	table := [](struct {
		name  string
		value string
	}){
		{"BOOT_LOAD_ADDR", "0x7c00"},
		{"SECTOR_SIZE", "0x200"},
		{"COM1", "0x3f8"},
		{"PORT_DELAY", "0x80"},
		{"TEST_ADDR", "0x500"},
	}

	for _, entry := range table {
		assert.Equal(entry.value, defines[entry.name], entry.name)
	}

	cfg, err := config.Load("test.star", `dump_start = BOOT_LOAD_ADDR + SECTOR_SIZE
port = COM2
`, Defines())
	assert.NoError(err)
	assert.Equal(uint32(0x7e00), cfg.DumpStart)
	assert.Equal(uart.COM2, cfg.Port)
}

func TestImage(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"full", "minimal", "memory", "cpu"} {
		cfg, err := config.ForVariant(name)
		assert.NoError(err)

		image, err := Image(cfg)
		assert.NoError(err, name)
		assert.NoError(bootsect.Verify(image), name)
		assert.Equal(bootsect.Stub, image[:len(bootsect.Stub)], name)
		assert.Contains(string(image), cfg.Commands+"\x00", name)
	}
}

func TestNewEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(config.Default())
	assert.NoError(err)
	assert.False(emu.Verbose)
	assert.Equal(0, emu.Boots())

	cfg := config.Default()
	cfg.Cpu = "z80"
	_, err = NewEmulator(cfg)
	assert.Error(err)

	cfg = config.Default()
	cfg.Commands = "pp"
	_, err = NewEmulator(cfg)
	assert.Error(err)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(config.Default())
	require.NoError(t, err)

	emu.Memory.Write8(bootsect.LOAD_ADDR, 0x00)
	emu.Memory.Write8(0x1234, 0x42)
	emu.Uart.Write([]byte("stale"))

	emu.Reset()

	assert.Equal(emu.Image, emu.Memory.Read(bootsect.LOAD_ADDR, bootsect.SECTOR_SIZE))
	assert.Equal(uint8(0), emu.Memory.Read8(0x1234))
	assert.Equal(0, emu.Uart.Pending())
	assert.Equal(uint8(0xfa), emu.Memory.Read8(bootsect.LOAD_ADDR))
}

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(config.Default())
	require.NoError(t, err)

	assert.Error(emu.LoadImage(make([]byte, bootsect.SECTOR_SIZE)))
	assert.Error(emu.LoadImage(make([]byte, 12)))

	image, err := bootsect.Build([]byte{0xf4})
	require.NoError(t, err)
	assert.NoError(emu.LoadImage(image))

	emu.Reset()
	assert.Equal(uint8(0xf4), emu.Memory.Read8(bootsect.LOAD_ADDR))
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	m := start(t, config.Default())

	assert.True(strings.HasPrefix(m.output.String(), "\r\nAI-OS Bootloader v0.1\r\n"))
	assert.Equal(uart.DEFAULT_BAUD, m.emu.Uart.Baud())
	assert.True(m.emu.Uart.FifoEnabled())

	m.emu.Uart.Write([]byte("p"))
	m.waitFor(t, "PONG\r\n", 1)

	m.emu.Uart.Write([]byte("i"))
	m.waitFor(t, "Memory: 640KB\r\n", 1)

	m.emu.Uart.Write([]byte("m"))
	m.waitFor(t, "FA 31 C0 8E", 1)

	m.emu.Uart.Write([]byte("t"))
	m.waitFor(t, "All tests passed\r\n", 1)

	m.emu.Uart.Write([]byte("x"))
	m.waitFor(t, "ERROR", 1)

	assert.Equal(1, m.emu.Boots())
}

func TestRun_Reboot(t *testing.T) {
	assert := assert.New(t)

	m := start(t, config.Default())

	m.emu.Uart.Write([]byte("r"))
	m.waitFor(t, "Rebooting...\r\n", 1)
	m.waitFor(t, "Ready for commands\r\n", 2)
	assert.Equal(2, m.emu.Boots())

	m.emu.Uart.Write([]byte("p"))
	m.waitFor(t, "PONG\r\n", 1)
}

func TestRun_Cancel(t *testing.T) {
	assert := assert.New(t)

	m := start(t, config.Default())

	m.cancel()
	m.cancel = nil

	select {
	case err := <-m.done:
		assert.ErrorIs(err, context.Canceled)
	case <-time.After(WAIT_FOR):
		t.Fatal("machine did not halt")
	}
}

func TestRun_Minimal(t *testing.T) {
	assert := assert.New(t)

	cfg, err := config.ForVariant("minimal")
	require.NoError(t, err)

	m := start(t, cfg)

	m.emu.Uart.Write([]byte("c"))
	m.waitFor(t, "ERROR: Unknown command\r\n", 1)
	assert.NotContains(m.output.String(), "Vendor:")
}

func TestServe(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(config.Default())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() {
		served <- emu.Serve(ctx, listener)
	}()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	ran := make(chan error, 1)
	go func() {
		ran <- emu.Run(ctx)
	}()

	// The line may not be attached when the monitor first drains its
	// input, so keep pinging until one gets through.
	reply := &bytes.Buffer{}
	chunk := make([]byte, 256)
	deadline := time.Now().Add(WAIT_FOR)
	for !strings.Contains(reply.String(), "PONG\r\n") {
		require.True(t, time.Now().Before(deadline), "no reply in %q", reply.String())

		_, err = conn.Write([]byte("p"))
		require.NoError(t, err)

		conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		n, _ := conn.Read(chunk)
		reply.Write(chunk[:n])
	}

	cancel()
	assert.ErrorIs(<-ran, context.Canceled)
	assert.ErrorIs(<-served, context.Canceled)
}
