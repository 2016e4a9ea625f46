package assembler

import (
	"strconv"
	"strings"

	"github.com/rv32i/emulator/isa"
)

// instructionFormat identifies which operand-slot policy and immediate
// shape a mnemonic's opcode uses.
type instructionFormat int

const (
	formatR instructionFormat = iota
	formatI
	formatJ
	formatU
	formatB
	formatS
)

// mnemonicOpcode maps every base (non-pseudo) mnemonic to its opcode.
// Includes "bltu", which the reference opcode table omits.
var mnemonicOpcode = map[string]uint32{
	"add": isa.OpOp, "sub": isa.OpOp, "sll": isa.OpOp, "slt": isa.OpOp,
	"sltu": isa.OpOp, "xor": isa.OpOp, "sra": isa.OpOp, "srl": isa.OpOp,
	"or": isa.OpOp, "and": isa.OpOp,

	"addi": isa.OpOpImm, "slli": isa.OpOpImm, "slti": isa.OpOpImm,
	"sltiu": isa.OpOpImm, "xori": isa.OpOpImm, "srai": isa.OpOpImm,
	"srli": isa.OpOpImm, "ori": isa.OpOpImm, "andi": isa.OpOpImm,

	"lui":   isa.OpLUI,
	"auipc": isa.OpAUIPC,
	"jal":   isa.OpJAL,
	"jalr":  isa.OpJALR,

	"beq": isa.OpBranch, "bne": isa.OpBranch, "blt": isa.OpBranch,
	"bge": isa.OpBranch, "bltu": isa.OpBranch, "bgeu": isa.OpBranch,

	"lb": isa.OpLoad, "lbu": isa.OpLoad, "lh": isa.OpLoad,
	"lhu": isa.OpLoad, "lw": isa.OpLoad,

	"sb": isa.OpStore, "sh": isa.OpStore, "sw": isa.OpStore,
}

// funct3ByMnemonic maps every base mnemonic to its funct3 field.
var funct3ByMnemonic = map[string]uint32{
	"beq": isa.Funct3BEQ, "bne": isa.Funct3BNE, "blt": isa.Funct3BLT,
	"bge": isa.Funct3BGE, "bltu": isa.Funct3BLTU, "bgeu": isa.Funct3BGEU,

	"lb": isa.Funct3LB, "lbu": isa.Funct3LBU, "lh": isa.Funct3LH,
	"lhu": isa.Funct3LHU, "lw": isa.Funct3LW,

	"sb": isa.Funct3SB, "sh": isa.Funct3SH, "sw": isa.Funct3SW,

	"add": isa.Funct3AddSub, "addi": isa.Funct3AddSub, "sub": isa.Funct3AddSub,
	"sll": isa.Funct3SLL, "slli": isa.Funct3SLL,
	"slt": isa.Funct3SLT, "slti": isa.Funct3SLT,
	"sltu": isa.Funct3SLTU, "sltiu": isa.Funct3SLTU,
	"xor": isa.Funct3XOR, "xori": isa.Funct3XOR,
	"sra": isa.Funct3SR, "srai": isa.Funct3SR, "srl": isa.Funct3SR, "srli": isa.Funct3SR,
	"or": isa.Funct3OR, "ori": isa.Funct3OR,
	"and": isa.Funct3AND, "andi": isa.Funct3AND,
}

// funct7ByMnemonic maps R-type mnemonics needing funct7 disambiguation.
var funct7ByMnemonic = map[string]uint32{
	"add": isa.Funct7AddSRL, "sub": isa.Funct7SubSRA,
	"srl": isa.Funct7AddSRL, "sra": isa.Funct7SubSRA,
	"sll": isa.Funct7AddSRL, "slt": isa.Funct7AddSRL, "sltu": isa.Funct7AddSRL,
	"xor": isa.Funct7AddSRL, "or": isa.Funct7AddSRL, "and": isa.Funct7AddSRL,
}

// shiftImmFunct7 covers the three shift-immediate mnemonics, whose
// immediate field doubles as a funct7/shamt pair the same way the
// R-type word does (bits [31:25] are funct7 either way).
var shiftImmFunct7 = map[string]uint32{
	"slli": isa.Funct7AddSRL,
	"srli": isa.Funct7AddSRL,
	"srai": isa.Funct7SubSRA,
}

func formatOf(opcode uint32) instructionFormat {
	switch opcode {
	case isa.OpOpImm, isa.OpJALR, isa.OpLoad:
		return formatI
	case isa.OpOp:
		return formatR
	case isa.OpJAL:
		return formatJ
	case isa.OpLUI, isa.OpAUIPC:
		return formatU
	case isa.OpBranch:
		return formatB
	case isa.OpStore:
		return formatS
	default:
		return formatI
	}
}

// matchRegister resolves a token to a register number 0-31: either
// "x" followed by a decimal number, or one of the 32 ABI names.
func matchRegister(tok string) (uint32, error) {
	if strings.HasPrefix(tok, "x") {
		n, err := strconv.ParseUint(tok[1:], 10, 8)
		if err != nil || n > 31 {
			return 0, &NoSuchRegister{Token: tok}
		}
		return uint32(n), nil
	}
	for n, name := range isa.RegNames {
		if name == tok {
			return uint32(n), nil
		}
	}
	return 0, &NoSuchRegister{Token: tok}
}

// parseImm parses a token as a signed integer (decimal, or hex with a
// 0x/0X prefix); if that fails, it is looked up in the label table and
// resolved to a PC-relative wrap-around offset.
func parseImm(tok string, labels map[string]uint32, pc uint32) (uint32, error) {
	if n, ok := parseInt(tok); ok {
		return n, nil
	}
	if addr, ok := labels[tok]; ok {
		return addr - pc, nil // wraps naturally in uint32 arithmetic
	}
	return 0, &InvalidImmediate{Token: tok}
}

// ParseInt implements the decimal/hex integer literal rule shared by
// immediate parsing and by the assertions package: hex if the token
// starts with 0x/0X, decimal (optionally signed) otherwise.
func ParseInt(tok string) (uint32, bool) {
	return parseInt(tok)
}

func parseInt(tok string) (uint32, bool) {
	neg := false
	s := tok
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var v int64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, e := strconv.ParseUint(s[2:], 16, 64)
		v, err = int64(u), e
	} else {
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return uint32(v), true
}
