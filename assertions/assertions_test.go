package assertions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rv32i/emulator/assembler"
	"github.com/rv32i/emulator/assertions"
	"github.com/rv32i/emulator/mcu"
	"github.com/rv32i/emulator/vm"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "assertions.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRunPassing(t *testing.T) {
	path := writeFile(t, `{
		"registers": {"t0": "5", "a0": "0x14"},
		"memory": {"0x100": "7"}
	}`)

	a, err := assertions.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Registers) != 2 {
		t.Fatalf("got %d register assertions, want 2", len(a.Registers))
	}
	if len(a.Memory) != 1 {
		t.Fatalf("got %d memory assertions, want 1", len(a.Memory))
	}

	m, err := mcu.New(0x1000)
	if err != nil {
		t.Fatal(err)
	}
	words, err := assembler.AssembleProgram("addi t0, x0, 5\naddi a0, x0, 20\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Mem.ProgramWords(words); err != nil {
		t.Fatal(err)
	}
	for range words {
		if err := vm.Step(&m.PC, m.Mem, m.RF); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Mem.WriteWord(0x100, 7); err != nil {
		t.Fatal(err)
	}

	if err := a.Run(m.Mem, m.RF); err != nil {
		t.Fatal(err)
	}
	if !a.AllPassed() {
		t.Errorf("AllPassed() = false, failures: %v", a.Failures())
	}
}

func TestRunReportsFailures(t *testing.T) {
	path := writeFile(t, `{"registers": {"t0": "99"}, "memory": {}}`)

	a, err := assertions.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	m, err := mcu.New(0x1000)
	if err != nil {
		t.Fatal(err)
	}
	// t0 left at its reset value of 0, not 99.

	if err := a.Run(m.Mem, m.RF); err != nil {
		t.Fatal(err)
	}
	if a.AllPassed() {
		t.Fatal("AllPassed() = true, want false")
	}
	if len(a.Failures()) != 1 {
		t.Errorf("got %d failures, want 1", len(a.Failures()))
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := assertions.Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
