// Package assertions loads a JSON expectation file describing the final
// register and memory state a program should reach, and checks a
// machine's actual state against it after execution stops.
package assertions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rv32i/emulator/assembler"
	"github.com/rv32i/emulator/isa"
	"github.com/rv32i/emulator/mcu"
)

// RegisterAssertion is a single expected register value, checked against
// the ABI register name it was declared under.
type RegisterAssertion struct {
	Register uint32
	Expected uint32
	Passed   bool
}

// MemoryAssertion is a single expected word value at a byte address.
type MemoryAssertion struct {
	Address  uint32
	Expected uint32
	Passed   bool
}

// Assertions is the full set of expectations loaded from a file, along
// with each one's most recent pass/fail outcome.
type Assertions struct {
	Registers []RegisterAssertion
	Memory    []MemoryAssertion
}

// fileFormat mirrors the on-disk JSON shape: a "registers" object keyed
// by ABI register name, and a "memory" object keyed by address, both
// with string values so they can be written in decimal or 0x hex.
type fileFormat struct {
	Registers map[string]string `json:"registers"`
	Memory    map[string]string `json:"memory"`
}

// Load reads and parses an assertions file at path.
func Load(path string) (*Assertions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assertions: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return nil, fmt.Errorf("assertions: parsing %s: %w", path, err)
	}

	a := &Assertions{}

	for n, name := range isa.RegNames {
		s, ok := ff.Registers[name]
		if !ok {
			continue
		}
		v, ok := assembler.ParseInt(s)
		if !ok {
			return nil, fmt.Errorf("assertions: register %s: invalid value %q", name, s)
		}
		a.Registers = append(a.Registers, RegisterAssertion{Register: uint32(n), Expected: v})
	}

	for k, v := range ff.Memory {
		addr, ok := assembler.ParseInt(k)
		if !ok {
			return nil, fmt.Errorf("assertions: memory key %q is not a valid address", k)
		}
		data, ok := assembler.ParseInt(v)
		if !ok {
			return nil, fmt.Errorf("assertions: memory[%s]: invalid value %q", k, v)
		}
		a.Memory = append(a.Memory, MemoryAssertion{Address: addr, Expected: data})
	}

	return a, nil
}

// Run re-checks every assertion against the current machine state,
// updating each entry's Passed field in place.
func (a *Assertions) Run(mem *mcu.Memory, rf *mcu.RegisterFile) error {
	for i := range a.Registers {
		got, err := rf.Read(a.Registers[i].Register)
		if err != nil {
			return err
		}
		a.Registers[i].Passed = got == a.Registers[i].Expected
	}
	for i := range a.Memory {
		got, err := mem.ReadWord(a.Memory[i].Address)
		if err != nil {
			return err
		}
		a.Memory[i].Passed = got == a.Memory[i].Expected
	}
	return nil
}

// AllPassed reports whether every assertion in the set currently holds.
// It reflects the outcome of the most recent Run, not a fresh check.
func (a *Assertions) AllPassed() bool {
	for _, r := range a.Registers {
		if !r.Passed {
			return false
		}
	}
	for _, m := range a.Memory {
		if !m.Passed {
			return false
		}
	}
	return true
}

// Failures returns a human-readable line per failing assertion, useful
// for CLI/API reporting. An empty slice means everything passed.
func (a *Assertions) Failures() []string {
	var out []string
	for _, r := range a.Registers {
		if !r.Passed {
			out = append(out, fmt.Sprintf("register %s: want %#x", isa.RegNames[r.Register], r.Expected))
		}
	}
	for _, m := range a.Memory {
		if !m.Passed {
			out = append(out, fmt.Sprintf("memory[%#x]: want %#x", m.Address, m.Expected))
		}
	}
	return out
}
