// Package cpu models the parts of an x86 processor the boot monitor
// relies on.
//
// The processor status word (FLAGS) is a plain value with a mask of bits
// that software can change. Whether the ID bit is writable decides if the
// feature-probe instruction (CPUID) exists, exactly as on real parts: a
// 486 without CPUID silently drops writes to bit 21. The probe itself is
// expressed as a pure function over the before/after status words, so it
// can be tested without privileged instructions.
//
// Identification data comes from a Model: a vendor string and a
// processor signature with 4-bit family, model and stepping fields.
package cpu
