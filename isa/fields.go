package isa

import "github.com/rv32i/emulator/bits"

// Field bit ranges within the 32-bit instruction word, LSB = 0.
const (
	opcodeHi, opcodeLo = 6, 0
	rdHi, rdLo         = 11, 7
	funct3Hi, funct3Lo = 14, 12
	rs1Hi, rs1Lo       = 19, 15
	rs2Hi, rs2Lo       = 24, 20
	funct7Hi, funct7Lo = 31, 25
)

// DecodeOpcode extracts the 7-bit opcode field.
func DecodeOpcode(ir uint32) uint32 { return bits.Slice(ir, opcodeHi, opcodeLo) }

// DecodeRd extracts the destination register field.
func DecodeRd(ir uint32) uint32 { return bits.Slice(ir, rdHi, rdLo) }

// DecodeFunct3 extracts the funct3 sub-opcode field.
func DecodeFunct3(ir uint32) uint32 { return bits.Slice(ir, funct3Hi, funct3Lo) }

// DecodeRs1 extracts the first source register field.
func DecodeRs1(ir uint32) uint32 { return bits.Slice(ir, rs1Hi, rs1Lo) }

// DecodeRs2 extracts the second source register field.
func DecodeRs2(ir uint32) uint32 { return bits.Slice(ir, rs2Hi, rs2Lo) }

// DecodeFunct7 extracts the funct7 sub-opcode field.
func DecodeFunct7(ir uint32) uint32 { return bits.Slice(ir, funct7Hi, funct7Lo) }

// EncodeOpcode returns the opcode field shifted into place, suitable for
// OR-ing into an instruction word being built up.
func EncodeOpcode(v uint32) uint32 { return (v & 0x7F) << opcodeLo }

// EncodeRd returns the rd field shifted into place.
func EncodeRd(v uint32) uint32 { return (v & 0x1F) << rdLo }

// EncodeFunct3 returns the funct3 field shifted into place.
func EncodeFunct3(v uint32) uint32 { return (v & 0x7) << funct3Lo }

// EncodeRs1 returns the rs1 field shifted into place.
func EncodeRs1(v uint32) uint32 { return (v & 0x1F) << rs1Lo }

// EncodeRs2 returns the rs2 field shifted into place.
func EncodeRs2(v uint32) uint32 { return (v & 0x1F) << rs2Lo }

// EncodeFunct7 returns the funct7 field shifted into place.
func EncodeFunct7(v uint32) uint32 { return (v & 0x7F) << funct7Lo }
