// Package loader resolves and loads RV32I program images, either
// assembly source or raw little-endian binary, into machine memory,
// sandboxing all filesystem access to a configured root directory.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rv32i/emulator/assembler"
	"github.com/rv32i/emulator/mcu"
)

// DefaultEntryLabel is the label LoadSource looks for when no explicit
// entry label is requested.
const DefaultEntryLabel = "_start"

// ResolvePath validates that path, once joined to root and canonicalized,
// does not escape root, the way the teacher's VM.ValidatePath guards
// file syscalls. Unlike that syscall-time check, this only needs to
// resolve a program image before load, so there is no write-mode path
// that may not exist yet.
func ResolvePath(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(absRoot, path)
	full = filepath.Clean(full)

	rel, err := filepath.Rel(absRoot, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", &PathEscapesRoot{Path: path, Root: root}
	}
	return full, nil
}

// LoadSource reads, assembles, and loads an assembly source file at
// path (resolved against fsroot) into mem, starting at word 0. It
// returns the address of entryLabel; DefaultEntryLabel falls back to
// address 0 (the program's first instruction) when the label is
// absent, but any other requested label must resolve or LoadSource
// returns NoEntryLabel.
func LoadSource(path, fsroot string, mem *mcu.Memory, entryLabel string) (uint32, error) {
	full, err := ResolvePath(fsroot, path)
	if err != nil {
		return 0, err
	}

	src, err := os.ReadFile(full)
	if err != nil {
		return 0, &assembler.IO{Err: err}
	}

	words, labels, err := assembler.AssembleProgramWithLabels(string(src))
	if err != nil {
		return 0, err
	}

	if err := mem.ProgramWords(words); err != nil {
		return 0, err
	}

	if addr, ok := labels[entryLabel]; ok {
		return addr, nil
	}
	if entryLabel == DefaultEntryLabel {
		return 0, nil
	}
	return 0, &NoEntryLabel{Label: entryLabel}
}

// LoadBinary reads a raw little-endian word stream at path (resolved
// against fsroot) and programs it into mem starting at address 0.
func LoadBinary(path, fsroot string, mem *mcu.Memory) error {
	full, err := ResolvePath(fsroot, path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return &assembler.IO{Err: err}
	}
	if len(data)%4 != 0 {
		return &BadBinarySize{Size: len(data)}
	}

	return mem.ProgramLEBytes(data)
}
