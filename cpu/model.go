package cpu

import (
	"maps"
	"slices"
)

// Model describes a processor preset.
type Model struct {
	Name      string    // Preset name, as in QEMU's -cpu.
	Vendor    string    // 12 byte vendor string.
	Signature Signature // Leaf 1 EAX.
	Features  uint32    // Leaf 1 EDX.
	MaxLeaf   uint32    // Highest standard leaf.
	HasId     bool      // False for parts that predate CPUID.
}

const DEFAULT_MODEL = "qemu64"

var _models = map[string]*Model{
	"qemu64": {
		Name:      "qemu64",
		Vendor:    "AuthenticAMD",
		Signature: 0x00060fb1, // family 15 model 107 stepping 1
		Features:  0x078bfbfd,
		MaxLeaf:   0xd,
		HasId:     true,
	},
	"core2duo": {
		Name:      "core2duo",
		Vendor:    "GenuineIntel",
		Signature: 0x000006fb,
		Features:  0xbfebfbff,
		MaxLeaf:   0xa,
		HasId:     true,
	},
	"athlon": {
		Name:      "athlon",
		Vendor:    "AuthenticAMD",
		Signature: 0x00000622,
		Features:  0x0183f9ff,
		MaxLeaf:   0x1,
		HasId:     true,
	},
	"pentium": {
		Name:      "pentium",
		Vendor:    "GenuineIntel",
		Signature: 0x00000543,
		Features:  0x000001bf,
		MaxLeaf:   0x1,
		HasId:     true,
	},
	"486": {
		Name:      "486",
		Vendor:    "GenuineIntel",
		Signature: 0x00000402,
		HasId:     false,
	},
}

// LookupModel returns the named preset.
func LookupModel(name string) (model *Model, err error) {
	model, ok := _models[name]
	if !ok {
		err = ErrModelUnknown(name)
	}

	return
}

// ModelNames lists the presets in name order.
func ModelNames() []string {
	return slices.Sorted(maps.Keys(_models))
}
