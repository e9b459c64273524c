package main

import (
	"flag"
	"log"
	"os"

	"github.com/cmraible/ai-os-dev/bootsect"
	"github.com/cmraible/ai-os-dev/config"
	"github.com/cmraible/ai-os-dev/emulator"
)

// verify checks every image named on the command line.
func verify(images []string) (failed int) {
	for _, image := range images {
		data, err := os.ReadFile(image)
		if err == nil {
			err = bootsect.Verify(data)
		}
		if err != nil {
			log.Printf("%v: %v", image, err)
			failed++
			continue
		}
		log.Printf("%v: ok", image)
	}

	return
}

func main() {
	var script string
	var variant string
	var output string
	var check bool
	var verbose bool

	flag.StringVar(&script, "c", "", ".star configuration script")
	flag.StringVar(&variant, "variant", config.DEFAULT_VARIANT, "Command set preset, unless -c is given")
	flag.StringVar(&output, "o", "boot.bin", "Image to write")
	flag.BoolVar(&check, "verify", false, "Verify the images named as arguments")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if check {
		if flag.NArg() == 0 {
			log.Fatalf("%v: -verify needs at least one image", os.Args[0])
		}
		if verify(flag.Args()) != 0 {
			os.Exit(1)
		}
		return
	}

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

	image, err := emulator.Image(cfg)
	if err != nil {
		log.Fatalf("%v: %v", cfg.Variant, err)
	}

	err = os.WriteFile(output, image, 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if verbose {
		log.Printf("%v: %v commands %q, %d bytes", output, cfg.Variant, cfg.Commands, len(image))
	}
}
