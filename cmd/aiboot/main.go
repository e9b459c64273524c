package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/mattn/go-tty"
	"golang.org/x/sync/errgroup"

	"github.com/cmraible/ai-os-dev/config"
	"github.com/cmraible/ai-os-dev/emulator"
)

const (
	CONSOLE_QUIT = 0x1d // ^]
)

// console runs the serial line on the controlling terminal in raw mode.
func console(ctx context.Context, cancel context.CancelFunc, emu *emulator.Emulator) (err error) {
	term, err := tty.Open()
	if err != nil {
		return
	}
	defer term.Close()

	restore, err := term.Raw()
	if err != nil {
		return
	}
	defer restore()

	emu.Uart.SetOutput(term.Output())

	go func() {
		defer cancel()

		buf := make([]byte, 64)
		for {
			n, err := term.Input().Read(buf)
			if err != nil {
				return
			}
			for i, b := range buf[:n] {
				if b == CONSOLE_QUIT {
					emu.Uart.Write(buf[:i])
					return
				}
			}
			emu.Uart.Write(buf[:n])
		}
	}()

	term.Output().WriteString("aiboot: ^] to quit\r\n")

	err = emu.Run(ctx)
	if ctx.Err() != nil {
		err = nil
	}

	return
}

// listen runs the serial line on a TCP endpoint.
func listen(ctx context.Context, emu *emulator.Emulator, addr string) (err error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return
	}

	log.Printf("aiboot: serial on %v", listener.Addr())

	emu.Uart.SetOutput(io.Discard)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return emu.Serve(gctx, listener)
	})
	group.Go(func() error {
		return emu.Run(gctx)
	})

	err = group.Wait()
	if ctx.Err() != nil {
		err = nil
	}

	return
}

func main() {
	var script string
	var variant string
	var image string
	var addr string
	var verbose bool

	flag.StringVar(&script, "c", "", ".star configuration script")
	flag.StringVar(&variant, "variant", config.DEFAULT_VARIANT, "Command set preset, unless -c is given")
	flag.StringVar(&image, "i", "", "Boot sector image to load instead of the assembled one")
	flag.StringVar(&addr, "l", "", "Serve the serial line on this TCP address instead of the console")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg, err := config.ForVariant(variant)
	if err != nil {
		log.Fatalf("%v: %v", variant, err)
	}

	if len(script) != 0 {
		inf, err := os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		defer inf.Close()

		cfg, err = config.Load(script, inf, emulator.Defines())
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	}

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatal(err)
	}
	emu.Verbose = verbose

	if len(image) != 0 {
		data, err := os.ReadFile(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		err = emu.LoadImage(data)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if len(addr) != 0 {
		err = listen(ctx, emu, addr)
	} else {
		err = console(ctx, cancel, emu)
	}
	if err != nil {
		log.Fatal(err)
	}
}
