package mcu

import (
	"fmt"
	"log"

	"github.com/rv32i/emulator/rverr"
)

// Memory is a heap-allocated, little-endian, byte-addressable flat
// memory of fixed size.
type Memory struct {
	size int
	mem  []byte

	// Logger, if non-nil, receives a line for every logged access (see
	// read/write below). The core never assumes this is set and never
	// changes observable state based on whether it is.
	Logger *log.Logger
}

// NewMemory allocates a memory of the given size, which must be a
// positive multiple of 4.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 || size%4 != 0 {
		return nil, fmt.Errorf("mcu: memory size %d must be a positive multiple of 4", size)
	}
	return &Memory{size: size, mem: make([]byte, size)}, nil
}

// Size returns the memory's size in bytes.
func (m *Memory) Size() int { return m.size }

func (m *Memory) read(base, size int, logAccess bool) (uint32, error) {
	if base%size != 0 {
		return 0, &rverr.MemoryAlignment{Addr: uint32(base)}
	}
	if base < 0 || base+size > m.size {
		return 0, &rverr.MemoryOutOfBounds{Addr: uint32(base)}
	}

	var data uint32
	for i := 0; i < size; i++ {
		data |= uint32(m.mem[base+i]) << (8 * i)
	}

	if logAccess && m.Logger != nil {
		m.Logger.Printf("(%d-byte *)%#08x = %#x (%d)", size, base, data, int32(data))
	}

	return data, nil
}

func (m *Memory) write(base int, data uint32, size int, logAccess bool) error {
	if logAccess && m.Logger != nil {
		m.Logger.Printf("(%d-byte *)%#08x <- %#x (%d)", size, base, data, int32(data))
	}

	if base%size != 0 {
		return &rverr.MemoryAlignment{Addr: uint32(base)}
	}
	if base < 0 || base+size > m.size {
		return &rverr.MemoryOutOfBounds{Addr: uint32(base)}
	}

	for i := 0; i < size; i++ {
		m.mem[base+i] = byte(data >> (8 * i))
	}
	return nil
}

// Fetch reads a 32-bit instruction word. Identical semantics to
// ReadWord, but never logged: instruction supply is not conflated with
// data-access observability.
func (m *Memory) Fetch(addr uint32) (uint32, error) {
	return m.read(int(addr), 4, false)
}

// ReadByte reads a zero-extended byte.
func (m *Memory) ReadByte(addr uint32) (uint32, error) {
	return m.read(int(addr), 1, true)
}

// ReadHalf reads a zero-extended half-word.
func (m *Memory) ReadHalf(addr uint32) (uint32, error) {
	return m.read(int(addr), 2, true)
}

// ReadWord reads a word.
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	return m.read(int(addr), 4, true)
}

// WriteByte stores the low 8 bits of v.
func (m *Memory) WriteByte(addr uint32, v uint32) error {
	return m.write(int(addr), v, 1, true)
}

// WriteHalf stores the low 16 bits of v.
func (m *Memory) WriteHalf(addr uint32, v uint32) error {
	return m.write(int(addr), v, 2, true)
}

// WriteWord stores v.
func (m *Memory) WriteWord(addr uint32, v uint32) error {
	return m.write(int(addr), v, 4, true)
}

// ProgramLEBytes copies raw little-endian bytes into memory starting at
// address 0. Unlike the individual accessors, no alignment is required.
func (m *Memory) ProgramLEBytes(data []byte) error {
	for i, b := range data {
		if err := m.write(i, uint32(b), 1, false); err != nil {
			return err
		}
	}
	return nil
}

// ProgramWords stores each word at offset i*4.
func (m *Memory) ProgramWords(words []uint32) error {
	for i, w := range words {
		if err := m.write(i*4, w, 4, false); err != nil {
			return err
		}
	}
	return nil
}
