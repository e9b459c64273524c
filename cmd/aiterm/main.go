package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cmraible/ai-os-dev/client"
	"github.com/cmraible/ai-os-dev/firmware"
	"github.com/cmraible/ai-os-dev/uart"
)

func main() {
	var device string
	var baud int
	var addr string
	var idle time.Duration
	var boot time.Duration
	var list bool
	var verbose bool

	flag.StringVar(&device, "d", "", "Serial device")
	flag.IntVar(&baud, "b", uart.DEFAULT_BAUD, "Serial device baud rate")
	flag.StringVar(&addr, "a", "localhost:5555", "TCP serial endpoint, when no device is given")
	flag.DurationVar(&idle, "t", 500*time.Millisecond, "Reply ends after the line is idle this long")
	flag.DurationVar(&boot, "w", 0, "Wait this long for the banner before sending")
	flag.BoolVar(&list, "list", false, "List serial devices")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if list {
		ports, err := client.SerialPorts()
		if err != nil {
			log.Fatal(err)
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [flags] <command letters>", os.Args[0])
	}

	var cl *client.Client
	var err error
	if len(device) != 0 {
		cl, err = client.OpenSerial(device, baud)
	} else {
		cl, err = client.Dial(addr)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer cl.Close()
	cl.Verbose = verbose

	if boot > 0 {
		lines, err := cl.ReadUntil(firmware.MSG_READY, boot)
		if err != nil {
			log.Fatal(err)
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	}

	for _, letter := range []byte(flag.Arg(0)) {
		lines, err := cl.Command(letter, "", idle)
		if err != nil {
			log.Fatalf("%c: %v", letter, err)
		}
		for _, line := range lines {
			fmt.Printf("%c> %s\n", letter, line)
		}
	}
}
