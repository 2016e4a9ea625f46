// Package mcu implements the register file and byte-addressable memory
// that back the execution core (spec.md C3): a 32-slot register file
// with x0 hardwired to zero, and a little-endian flat memory with
// alignment and bounds checking.
package mcu

import "github.com/rv32i/emulator/rverr"

// RegisterFile holds the 32 RV32I integer registers. x0 is not stored;
// reads of x0 always return 0 and writes to it are silently discarded.
type RegisterFile struct {
	registers [31]uint32
}

// NewRegisterFile returns a register file with every register zeroed.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Read returns the value of register n. Reading x0 always yields 0.
func (rf *RegisterFile) Read(n uint32) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 31 {
		return 0, &rverr.RegisterOutOfRange{N: n}
	}
	return rf.registers[n-1], nil
}

// Write stores v in register n. Writing x0 succeeds and has no effect.
func (rf *RegisterFile) Write(n uint32, v uint32) error {
	if n > 31 {
		return &rverr.RegisterOutOfRange{N: n}
	}
	if n == 0 {
		return nil
	}
	rf.registers[n-1] = v
	return nil
}
