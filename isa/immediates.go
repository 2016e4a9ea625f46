package isa

import "github.com/rv32i/emulator/bits"

// DecodeIImm decodes the I-type immediate (imm[11:0] = ir[31:20]),
// sign-extended to 32 bits from ir[31].
func DecodeIImm(ir uint32) uint32 {
	sign := bits.Slice(ir, 31, 31)
	return bits.Concat(
		bits.Field{Value: bits.Extend(sign, 20), Width: 20},
		bits.Field{Value: bits.Slice(ir, 31, 20), Width: 12},
	)
}

// EncodeIImm packs a 32-bit value (low 12 bits significant) into the
// I-type immediate field, truncating silently if it does not fit.
func EncodeIImm(imm uint32) uint32 {
	return bits.Slice(imm, 11, 0) << 20
}

// DecodeSImm decodes the S-type immediate
// (imm[11:5] = ir[31:25], imm[4:0] = ir[11:7]).
func DecodeSImm(ir uint32) uint32 {
	sign := bits.Slice(ir, 31, 31)
	return bits.Concat(
		bits.Field{Value: bits.Extend(sign, 20), Width: 20},
		bits.Field{Value: bits.Slice(ir, 31, 25), Width: 7},
		bits.Field{Value: bits.Slice(ir, 11, 7), Width: 5},
	)
}

// EncodeSImm packs a value into the S-type immediate field.
func EncodeSImm(imm uint32) uint32 {
	return (bits.Slice(imm, 11, 5) << 25) | (bits.Slice(imm, 4, 0) << 7)
}

// DecodeBImm decodes the B-type immediate
// (imm[12]=ir[31], imm[10:5]=ir[30:25], imm[4:1]=ir[11:8], imm[11]=ir[7],
// imm[0]=0).
func DecodeBImm(ir uint32) uint32 {
	sign := bits.Slice(ir, 31, 31)
	return bits.Concat(
		bits.Field{Value: bits.Extend(sign, 19), Width: 19},
		bits.Field{Value: sign, Width: 1},
		bits.Field{Value: bits.Slice(ir, 7, 7), Width: 1},
		bits.Field{Value: bits.Slice(ir, 30, 25), Width: 6},
		bits.Field{Value: bits.Slice(ir, 11, 8), Width: 4},
		bits.Field{Value: 0, Width: 1},
	)
}

// EncodeBImm packs a value into the B-type immediate field.
func EncodeBImm(imm uint32) uint32 {
	return (bits.Slice(imm, 12, 12) << 31) |
		(bits.Slice(imm, 10, 5) << 25) |
		(bits.Slice(imm, 4, 1) << 8) |
		(bits.Slice(imm, 11, 11) << 7)
}

// DecodeUImm decodes the U-type immediate (imm[31:12] = ir[31:12], low
// 12 bits zero).
func DecodeUImm(ir uint32) uint32 {
	return bits.Concat(
		bits.Field{Value: bits.Slice(ir, 31, 12), Width: 20},
		bits.Field{Value: 0, Width: 12},
	)
}

// EncodeUImm packs a value into the U-type immediate field.
func EncodeUImm(imm uint32) uint32 {
	return bits.Slice(imm, 31, 12) << 12
}

// DecodeJImm decodes the J-type immediate
// (imm[20]=ir[31], imm[10:1]=ir[30:21], imm[11]=ir[20], imm[19:12]=ir[19:12],
// imm[0]=0).
func DecodeJImm(ir uint32) uint32 {
	sign := bits.Slice(ir, 31, 31)
	return bits.Concat(
		bits.Field{Value: bits.Extend(sign, 11), Width: 11},
		bits.Field{Value: sign, Width: 1},
		bits.Field{Value: bits.Slice(ir, 19, 12), Width: 8},
		bits.Field{Value: bits.Slice(ir, 20, 20), Width: 1},
		bits.Field{Value: bits.Slice(ir, 30, 21), Width: 10},
		bits.Field{Value: 0, Width: 1},
	)
}

// EncodeJImm packs a value into the J-type immediate field.
func EncodeJImm(imm uint32) uint32 {
	return (bits.Slice(imm, 20, 20) << 31) |
		(bits.Slice(imm, 10, 1) << 21) |
		(bits.Slice(imm, 11, 11) << 20) |
		(bits.Slice(imm, 19, 12) << 12)
}
