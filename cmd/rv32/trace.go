package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rv32i/emulator/isa"
	"github.com/rv32i/emulator/mcu"
)

// execTrace writes one line per retired instruction: the new PC and
// every register that changed since the previous step, adapted from
// the teacher's execution-trace idea (snapshot diff against the
// register file) but without the CPSR/timing/JSON machinery this ISA
// has no use for.
type execTrace struct {
	w        io.Writer
	rf       *mcu.RegisterFile
	seq      uint64
	snapshot [32]uint32
}

func newExecTrace(w io.Writer, rf *mcu.RegisterFile) *execTrace {
	t := &execTrace{w: w, rf: rf}
	for n := range t.snapshot {
		v, _ := rf.Read(uint32(n))
		t.snapshot[n] = v
	}
	return t
}

// record logs the instruction that just retired, leaving pc at the
// machine's new program counter.
func (t *execTrace) record(pc uint32) {
	t.seq++
	var changed []string
	for n := range t.snapshot {
		v, _ := t.rf.Read(uint32(n))
		if v != t.snapshot[n] {
			changed = append(changed, fmt.Sprintf("%s=0x%08x", isa.RegNames[n], v))
			t.snapshot[n] = v
		}
	}
	if len(changed) == 0 {
		fmt.Fprintf(t.w, "%06d pc=0x%08x\n", t.seq, pc)
		return
	}
	fmt.Fprintf(t.w, "%06d pc=0x%08x %s\n", t.seq, pc, strings.Join(changed, " "))
}
