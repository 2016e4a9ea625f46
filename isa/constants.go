// Package isa is the RV32I instruction codec (spec.md C2): the fixed
// opcode/funct3/funct7 tables, the field bit-layout, and the
// per-field/per-immediate encoders and decoders shared by the
// assembler and the execution core.
package isa

// Opcodes, 7 bits, occupying instruction bits [6:0].
const (
	OpLUI    uint32 = 0b0110111
	OpAUIPC  uint32 = 0b0010111
	OpJAL    uint32 = 0b1101111
	OpJALR   uint32 = 0b1100111
	OpBranch uint32 = 0b1100011
	OpLoad   uint32 = 0b0000011
	OpStore  uint32 = 0b0100011
	OpOpImm  uint32 = 0b0010011 // register-immediate arithmetic
	OpOp     uint32 = 0b0110011 // register-register arithmetic
)

// Branch funct3 codes.
const (
	Funct3BEQ  uint32 = 0b000
	Funct3BNE  uint32 = 0b001
	Funct3BLT  uint32 = 0b100
	Funct3BGE  uint32 = 0b101
	Funct3BLTU uint32 = 0b110
	Funct3BGEU uint32 = 0b111
)

// Load/store funct3 codes.
const (
	Funct3LB  uint32 = 0b000
	Funct3LH  uint32 = 0b001
	Funct3LW  uint32 = 0b010
	Funct3LBU uint32 = 0b100
	Funct3LHU uint32 = 0b101

	Funct3SB uint32 = 0b000
	Funct3SH uint32 = 0b001
	Funct3SW uint32 = 0b010
)

// OP/OP-IMM funct3 codes.
const (
	Funct3AddSub uint32 = 0b000
	Funct3SLL    uint32 = 0b001
	Funct3SLT    uint32 = 0b010
	Funct3SLTU   uint32 = 0b011
	Funct3XOR    uint32 = 0b100
	Funct3SR     uint32 = 0b101 // SRL/SRLI or SRA/SRAI, disambiguated by funct7
	Funct3OR     uint32 = 0b110
	Funct3AND    uint32 = 0b111
)

// funct7 codes disambiguating ADD/SUB and SRL/SRA.
const (
	Funct7AddSRL uint32 = 0b0000000 // ADD, or logical shift right
	Funct7SubSRA uint32 = 0b0100000 // SUB, or arithmetic shift right
)

// RegNames lists the canonical ABI name of register x0..x31, in order.
var RegNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}
