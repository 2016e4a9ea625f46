package mcu_test

import (
	"testing"

	"github.com/rv32i/emulator/mcu"
)

func TestNewMemoryRejectsBadSize(t *testing.T) {
	if _, err := mcu.NewMemory(3); err == nil {
		t.Fatal("expected error for unaligned size")
	}
	if _, err := mcu.NewMemory(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestMemoryOutOfBounds(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mem.ReadByte(1028); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestMemoryMisaligned(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mem.ReadHalf(3); err == nil {
		t.Fatal("expected alignment error")
	}
	if _, err := mem.ReadWord(2); err == nil {
		t.Fatal("expected alignment error")
	}
	if err := mem.WriteHalf(3, 0); err == nil {
		t.Fatal("expected alignment error")
	}
	if err := mem.WriteWord(2, 0); err == nil {
		t.Fatal("expected alignment error")
	}
}

func TestMemoryByteReadWrite(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	for data := uint32(0); data < 0xFF; data++ {
		for addr := uint32(0); addr < 16; addr++ {
			if err := mem.WriteByte(addr, data); err != nil {
				t.Fatal(err)
			}
			got, err := mem.ReadByte(addr)
			if err != nil {
				t.Fatal(err)
			}
			if got != data {
				t.Fatalf("byte[%d] = %#x, want %#x", addr, got, data)
			}
		}
	}
}

func TestMemoryWordIsLittleEndian(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	const addr = 0x04
	if err := mem.WriteWord(addr, 0x76821712); err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		off  uint32
		want uint32
	}{
		{0, 0x12}, {1, 0x17}, {2, 0x82}, {3, 0x76},
	}
	for _, c := range checks {
		got, err := mem.ReadByte(addr + c.off)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("byte %d of word = %#x, want %#x", c.off, got, c.want)
		}
	}

	got, err := mem.ReadWord(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x76821712 {
		t.Errorf("ReadWord = %#x, want 0x76821712", got)
	}
}

func TestMemoryHalfWordReadWrite(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	const addr = 0x02
	for data := uint32(0); data < 0xFFFF; data += 257 {
		if err := mem.WriteHalf(addr, data); err != nil {
			t.Fatal(err)
		}
		got, err := mem.ReadHalf(addr)
		if err != nil {
			t.Fatal(err)
		}
		if got != data {
			t.Fatalf("ReadHalf = %#x, want %#x", got, data)
		}
	}
}

func TestFetchDoesNotLog(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	var buf loggingBuffer
	mem.Logger = newTestLogger(&buf)

	if err := mem.WriteWord(0, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	buf.lines = nil // discard the write's log line

	if _, err := mem.Fetch(0); err != nil {
		t.Fatal(err)
	}
	if len(buf.lines) != 0 {
		t.Errorf("Fetch logged %d lines, want 0", len(buf.lines))
	}

	if _, err := mem.ReadWord(0); err != nil {
		t.Fatal(err)
	}
	if len(buf.lines) != 1 {
		t.Errorf("ReadWord logged %d lines, want 1", len(buf.lines))
	}
}

func TestProgramLEBytes(t *testing.T) {
	mem, err := mcu.NewMemory(1024)
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.ProgramLEBytes([]byte{0x78, 0x56, 0x34, 0x12}); err != nil {
		t.Fatal(err)
	}
	got, err := mem.ReadWord(0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x12345678 {
		t.Errorf("ProgramLEBytes result = %#x, want 0x12345678", got)
	}
}
