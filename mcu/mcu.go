package mcu

// Mcu bundles the program counter, register file, and memory that
// together make up the machine state the execution core operates on.
type Mcu struct {
	PC  uint32
	Mem *Memory
	RF  *RegisterFile
}

// New constructs an Mcu with a memory of the given size.
func New(memSize int) (*Mcu, error) {
	mem, err := NewMemory(memSize)
	if err != nil {
		return nil, err
	}
	return &Mcu{
		Mem: mem,
		RF:  NewRegisterFile(),
	}, nil
}
