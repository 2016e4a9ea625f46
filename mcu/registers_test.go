package mcu_test

import (
	"testing"

	"github.com/rv32i/emulator/mcu"
)

func TestRegisterZeroIsHardwired(t *testing.T) {
	rf := mcu.NewRegisterFile()
	if err := rf.Write(0, 17); err != nil {
		t.Fatalf("write x0: %v", err)
	}
	got, err := rf.Read(0)
	if err != nil {
		t.Fatalf("read x0: %v", err)
	}
	if got != 0 {
		t.Errorf("x0 = %d, want 0", got)
	}
}

func TestRegisterReadWrite(t *testing.T) {
	rf := mcu.NewRegisterFile()
	for i := 0; i < 128; i++ {
		d := uint32(i << 16)
		for n := uint32(0); n < 32; n++ {
			if err := rf.Write(n, d); err != nil {
				t.Fatalf("write x%d: %v", n, err)
			}
			want := d
			if n == 0 {
				want = 0
			}
			got, err := rf.Read(n)
			if err != nil {
				t.Fatalf("read x%d: %v", n, err)
			}
			if got != want {
				t.Errorf("x%d = %d, want %d", n, got, want)
			}
		}
	}
}

func TestRegisterOutOfRange(t *testing.T) {
	rf := mcu.NewRegisterFile()
	if _, err := rf.Read(32); err == nil {
		t.Fatal("expected error reading x32")
	}
	if err := rf.Write(32, 0); err == nil {
		t.Fatal("expected error writing x32")
	}
}
