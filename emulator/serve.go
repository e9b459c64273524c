package emulator

import (
	"context"
	"io"
	"log"
	"net"
)

// Attach connects a host stream to the serial line until the stream ends
// or ctx is done. Transmitted bytes go to rw; bytes read from rw arrive on
// the line.
func (emu *Emulator) Attach(ctx context.Context, rw io.ReadWriter) (err error) {
	emu.Uart.SetOutput(rw)
	defer emu.Uart.SetOutput(io.Discard)

	if closer, ok := rw.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() {
			closer.Close()
		})
		defer stop()
	}

	_, err = io.Copy(emu.Uart, rw)
	if ctx.Err() != nil {
		err = nil
	}

	return
}

// Serve exposes the serial line on a listener, one connection at a time,
// until ctx is done. The machine itself is driven by Run.
func (emu *Emulator) Serve(ctx context.Context, listener net.Listener) (err error) {
	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	for {
		var conn net.Conn
		conn, err = listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return
		}

		if emu.Verbose {
			log.Printf("emulator: serial: %v connected", conn.RemoteAddr())
		}

		err = emu.Attach(ctx, conn)
		conn.Close()

		if emu.Verbose {
			log.Printf("emulator: serial: %v closed: %v", conn.RemoteAddr(), err)
		}
	}
}
