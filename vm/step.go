// Package vm is the RV32I execution core (spec.md C5): a single
// fetch-decode-execute step over a program counter, register file, and
// memory, dispatching on the fixed opcode/funct3/funct7 tables in isa.
package vm

import (
	"github.com/rv32i/emulator/isa"
	"github.com/rv32i/emulator/mcu"
	"github.com/rv32i/emulator/rverr"
)

// Step performs one fetch-decode-execute cycle, mutating pc in place.
// On error, pc is left unchanged (at the failing instruction) and any
// register/memory writes from prior, already-completed steps stand;
// a failing step itself does not partially mutate state that it has
// not already validated.
func Step(pc *uint32, mem *mcu.Memory, rf *mcu.RegisterFile) error {
	ir, err := mem.Fetch(*pc)
	if err != nil {
		return err
	}

	opcode := isa.DecodeOpcode(ir)

	switch opcode {
	case isa.OpLUI:
		return execLUI(pc, ir, rf)
	case isa.OpAUIPC:
		return execAUIPC(pc, ir, rf)
	case isa.OpJAL:
		return execJAL(pc, ir, rf)
	case isa.OpJALR:
		return execJALR(pc, ir, rf)
	case isa.OpBranch:
		return execBranch(pc, ir, rf)
	case isa.OpLoad:
		return execLoad(pc, ir, mem, rf)
	case isa.OpStore:
		return execStore(pc, ir, mem, rf)
	case isa.OpOp, isa.OpOpImm:
		return execArith(pc, ir, rf)
	default:
		return &rverr.InvalidOpcode{IR: ir, Opcode: opcode}
	}
}

func execLUI(pc *uint32, ir uint32, rf *mcu.RegisterFile) error {
	if err := rf.Write(isa.DecodeRd(ir), isa.DecodeUImm(ir)); err != nil {
		return err
	}
	*pc += 4
	return nil
}

func execAUIPC(pc *uint32, ir uint32, rf *mcu.RegisterFile) error {
	if err := rf.Write(isa.DecodeRd(ir), *pc+isa.DecodeUImm(ir)); err != nil {
		return err
	}
	*pc += 4
	return nil
}

func execJAL(pc *uint32, ir uint32, rf *mcu.RegisterFile) error {
	origin := *pc
	if err := rf.Write(isa.DecodeRd(ir), origin+4); err != nil {
		return err
	}
	*pc = origin + isa.DecodeJImm(ir)
	return nil
}

func execJALR(pc *uint32, ir uint32, rf *mcu.RegisterFile) error {
	rs1, err := rf.Read(isa.DecodeRs1(ir))
	if err != nil {
		return err
	}
	target := (rs1 + isa.DecodeIImm(ir)) &^ 1 // low bit cleared per the ISA
	origin := *pc
	if err := rf.Write(isa.DecodeRd(ir), origin+4); err != nil {
		return err
	}
	*pc = target
	return nil
}

func execBranch(pc *uint32, ir uint32, rf *mcu.RegisterFile) error {
	rs1, err := rf.Read(isa.DecodeRs1(ir))
	if err != nil {
		return err
	}
	rs2, err := rf.Read(isa.DecodeRs2(ir))
	if err != nil {
		return err
	}

	funct3 := isa.DecodeFunct3(ir)
	var taken bool
	switch funct3 {
	case isa.Funct3BEQ:
		taken = rs1 == rs2
	case isa.Funct3BNE:
		taken = rs1 != rs2
	case isa.Funct3BLT:
		taken = int32(rs1) < int32(rs2)
	case isa.Funct3BGE:
		taken = int32(rs1) >= int32(rs2)
	case isa.Funct3BLTU:
		taken = rs1 < rs2
	case isa.Funct3BGEU:
		taken = rs1 >= rs2
	default:
		return &rverr.InvalidFunct3{IR: ir, Funct3: funct3}
	}

	if taken {
		*pc += isa.DecodeBImm(ir)
	} else {
		*pc += 4
	}
	return nil
}

func execLoad(pc *uint32, ir uint32, mem *mcu.Memory, rf *mcu.RegisterFile) error {
	rs1, err := rf.Read(isa.DecodeRs1(ir))
	if err != nil {
		return err
	}
	addr := rs1 + isa.DecodeIImm(ir)

	funct3 := isa.DecodeFunct3(ir)
	var value uint32
	switch funct3 {
	case isa.Funct3LB:
		b, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		value = signExtend(b, 8)
	case isa.Funct3LBU:
		b, err := mem.ReadByte(addr)
		if err != nil {
			return err
		}
		value = b
	case isa.Funct3LH:
		h, err := mem.ReadHalf(addr)
		if err != nil {
			return err
		}
		value = signExtend(h, 16)
	case isa.Funct3LHU:
		h, err := mem.ReadHalf(addr)
		if err != nil {
			return err
		}
		value = h
	case isa.Funct3LW:
		w, err := mem.ReadWord(addr)
		if err != nil {
			return err
		}
		value = w
	default:
		return &rverr.InvalidFunct3{IR: ir, Funct3: funct3}
	}

	if err := rf.Write(isa.DecodeRd(ir), value); err != nil {
		return err
	}
	*pc += 4
	return nil
}

func execStore(pc *uint32, ir uint32, mem *mcu.Memory, rf *mcu.RegisterFile) error {
	rs1, err := rf.Read(isa.DecodeRs1(ir))
	if err != nil {
		return err
	}
	addr := rs1 + isa.DecodeSImm(ir)

	data, err := rf.Read(isa.DecodeRs2(ir))
	if err != nil {
		return err
	}

	funct3 := isa.DecodeFunct3(ir)
	switch funct3 {
	case isa.Funct3SB:
		err = mem.WriteByte(addr, data)
	case isa.Funct3SH:
		err = mem.WriteHalf(addr, data)
	case isa.Funct3SW:
		err = mem.WriteWord(addr, data)
	default:
		return &rverr.InvalidFunct3{IR: ir, Funct3: funct3}
	}
	if err != nil {
		return err
	}
	*pc += 4
	return nil
}

func execArith(pc *uint32, ir uint32, rf *mcu.RegisterFile) error {
	opcode := isa.DecodeOpcode(ir)

	lhs, err := rf.Read(isa.DecodeRs1(ir))
	if err != nil {
		return err
	}

	var rhs uint32
	if opcode == isa.OpOp {
		rhs, err = rf.Read(isa.DecodeRs2(ir))
		if err != nil {
			return err
		}
	} else {
		rhs = isa.DecodeIImm(ir)
	}

	funct3 := isa.DecodeFunct3(ir)
	funct7 := isa.DecodeFunct7(ir)

	var result uint32
	switch funct3 {
	case isa.Funct3AddSub:
		if opcode == isa.OpOp && funct7 == isa.Funct7SubSRA {
			result = lhs - rhs
		} else {
			result = lhs + rhs
		}
	case isa.Funct3SLL:
		result = lhs << (rhs & 0x1F)
	case isa.Funct3SLT:
		if int32(lhs) < int32(rhs) {
			result = 1
		}
	case isa.Funct3SLTU:
		if lhs < rhs {
			result = 1
		}
	case isa.Funct3XOR:
		result = lhs ^ rhs
	case isa.Funct3SR:
		shamt := rhs & 0x1F
		if funct7 == isa.Funct7SubSRA {
			result = uint32(int32(lhs) >> shamt)
		} else {
			result = lhs >> shamt
		}
	case isa.Funct3OR:
		result = lhs | rhs
	case isa.Funct3AND:
		result = lhs & rhs
	}

	if err := rf.Write(isa.DecodeRd(ir), result); err != nil {
		return err
	}
	*pc += 4
	return nil
}

// signExtend sign-extends the low `width` bits of v to 32 bits.
func signExtend(v uint32, width int) uint32 {
	shift := 32 - width
	return uint32(int32(v<<shift) >> shift)
}
