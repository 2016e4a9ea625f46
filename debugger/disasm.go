package debugger

import (
	"fmt"

	"github.com/rv32i/emulator/isa"
)

// disassemble renders a fetched instruction word as a short mnemonic
// line for the TUI disassembly panel and "x" command. It is not a
// full disassembler: pseudo-instruction folding (the assembler's
// expandPseudo) is not reversed here, so e.g. "addi rd, x0, imm" is
// shown rather than "li rd, imm".
func disassemble(ir uint32) string {
	opcode := isa.DecodeOpcode(ir)
	rd := isa.DecodeRd(ir)
	rs1 := isa.DecodeRs1(ir)
	rs2 := isa.DecodeRs2(ir)
	f3 := isa.DecodeFunct3(ir)
	f7 := isa.DecodeFunct7(ir)

	reg := func(n uint32) string { return isa.RegNames[n&0x1F] }

	switch opcode {
	case isa.OpLUI:
		return fmt.Sprintf("lui   %s, 0x%x", reg(rd), isa.DecodeUImm(ir)>>12)
	case isa.OpAUIPC:
		return fmt.Sprintf("auipc %s, 0x%x", reg(rd), isa.DecodeUImm(ir)>>12)
	case isa.OpJAL:
		return fmt.Sprintf("jal   %s, %d", reg(rd), int32(isa.DecodeJImm(ir)))
	case isa.OpJALR:
		return fmt.Sprintf("jalr  %s, %d(%s)", reg(rd), int32(isa.DecodeIImm(ir)), reg(rs1))
	case isa.OpBranch:
		return fmt.Sprintf("%-5s %s, %s, %d", branchMnemonic(f3), reg(rs1), reg(rs2), int32(isa.DecodeBImm(ir)))
	case isa.OpLoad:
		return fmt.Sprintf("%-5s %s, %d(%s)", loadMnemonic(f3), reg(rd), int32(isa.DecodeIImm(ir)), reg(rs1))
	case isa.OpStore:
		return fmt.Sprintf("%-5s %s, %d(%s)", storeMnemonic(f3), reg(rs2), int32(isa.DecodeSImm(ir)), reg(rs1))
	case isa.OpOpImm:
		return fmt.Sprintf("%-5s %s, %s, %d", opImmMnemonic(f3, f7), reg(rd), reg(rs1), int32(isa.DecodeIImm(ir)))
	case isa.OpOp:
		return fmt.Sprintf("%-5s %s, %s, %s", opMnemonic(f3, f7), reg(rd), reg(rs1), reg(rs2))
	default:
		return fmt.Sprintf(".word 0x%08X", ir)
	}
}

func branchMnemonic(f3 uint32) string {
	switch f3 {
	case isa.Funct3BEQ:
		return "beq"
	case isa.Funct3BNE:
		return "bne"
	case isa.Funct3BLT:
		return "blt"
	case isa.Funct3BGE:
		return "bge"
	case isa.Funct3BLTU:
		return "bltu"
	case isa.Funct3BGEU:
		return "bgeu"
	default:
		return "b?"
	}
}

func loadMnemonic(f3 uint32) string {
	switch f3 {
	case isa.Funct3LB:
		return "lb"
	case isa.Funct3LH:
		return "lh"
	case isa.Funct3LW:
		return "lw"
	case isa.Funct3LBU:
		return "lbu"
	case isa.Funct3LHU:
		return "lhu"
	default:
		return "l?"
	}
}

func storeMnemonic(f3 uint32) string {
	switch f3 {
	case isa.Funct3SB:
		return "sb"
	case isa.Funct3SH:
		return "sh"
	case isa.Funct3SW:
		return "sw"
	default:
		return "s?"
	}
}

func opImmMnemonic(f3, f7 uint32) string {
	switch f3 {
	case isa.Funct3AddSub:
		return "addi"
	case isa.Funct3SLL:
		return "slli"
	case isa.Funct3SLT:
		return "slti"
	case isa.Funct3SLTU:
		return "sltiu"
	case isa.Funct3XOR:
		return "xori"
	case isa.Funct3SR:
		if f7 == isa.Funct7SubSRA {
			return "srai"
		}
		return "srli"
	case isa.Funct3OR:
		return "ori"
	case isa.Funct3AND:
		return "andi"
	default:
		return "op-imm?"
	}
}

func opMnemonic(f3, f7 uint32) string {
	switch f3 {
	case isa.Funct3AddSub:
		if f7 == isa.Funct7SubSRA {
			return "sub"
		}
		return "add"
	case isa.Funct3SLL:
		return "sll"
	case isa.Funct3SLT:
		return "slt"
	case isa.Funct3SLTU:
		return "sltu"
	case isa.Funct3XOR:
		return "xor"
	case isa.Funct3SR:
		if f7 == isa.Funct7SubSRA {
			return "sra"
		}
		return "srl"
	case isa.Funct3OR:
		return "or"
	case isa.Funct3AND:
		return "and"
	default:
		return "op?"
	}
}
