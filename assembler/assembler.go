package assembler

import (
	"github.com/rv32i/emulator/isa"
)

// encodeBase encodes a single base (non-pseudo) instruction's tokens
// (mnemonic first, label already stripped) into a 32-bit word, given
// the current label table and PC.
func encodeBase(tokens []string, labels map[string]uint32, pc uint32) (uint32, error) {
	op := tokens[0]

	opcode, ok := mnemonicOpcode[op]
	if !ok {
		return 0, &InvalidOperation{Token: op}
	}

	format := formatOf(opcode)

	var ir uint32
	ir |= isa.EncodeOpcode(opcode)

	needRd := format == formatR || format == formatI || format == formatU || format == formatJ
	needRs1 := format == formatI || format == formatR || format == formatB || format == formatS
	needRs2 := format == formatR || format == formatS || format == formatB
	needFunct7 := format == formatR

	if needRd {
		if len(tokens) < 2 {
			return 0, &TooFewTokens{}
		}
		rd, err := matchRegister(tokens[1])
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeRd(rd)
	}

	if needRs1 {
		idx := 2
		switch opcode {
		case isa.OpLoad, isa.OpStore:
			idx = 3
		case isa.OpBranch:
			idx = 1
		}
		if len(tokens) <= idx {
			return 0, &TooFewTokens{}
		}
		rs1, err := matchRegister(tokens[idx])
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeRs1(rs1)
		ir |= isa.EncodeFunct3(funct3ByMnemonic[op])
	}

	if needRs2 {
		idx := 3
		switch opcode {
		case isa.OpStore:
			idx = 1
		case isa.OpBranch:
			idx = 2
		}
		if len(tokens) <= idx {
			return 0, &TooFewTokens{}
		}
		rs2, err := matchRegister(tokens[idx])
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeRs2(rs2)
	}

	if needFunct7 {
		ir |= isa.EncodeFunct7(funct7ByMnemonic[op])
	}

	switch format {
	case formatI:
		idx := 3
		if opcode == isa.OpLoad {
			idx = 2
		}
		if len(tokens) <= idx {
			return 0, &TooFewTokens{}
		}
		imm, err := parseImm(tokens[idx], labels, pc)
		if err != nil {
			return 0, err
		}
		if funct7, ok := shiftImmFunct7[op]; ok {
			imm = (imm & 0x1F) | (funct7 << 5)
		}
		ir |= isa.EncodeIImm(imm)
	case formatU:
		if len(tokens) <= 2 {
			return 0, &TooFewTokens{}
		}
		imm, err := parseImm(tokens[2], labels, pc)
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeUImm(imm << 12)
	case formatJ:
		if len(tokens) <= 2 {
			return 0, &TooFewTokens{}
		}
		imm, err := parseImm(tokens[2], labels, pc)
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeJImm(imm)
	case formatB:
		if len(tokens) <= 3 {
			return 0, &TooFewTokens{}
		}
		imm, err := parseImm(tokens[3], labels, pc)
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeBImm(imm)
	case formatS:
		if len(tokens) <= 2 {
			return 0, &TooFewTokens{}
		}
		imm, err := parseImm(tokens[2], labels, pc)
		if err != nil {
			return 0, err
		}
		ir |= isa.EncodeSImm(imm)
	}

	return ir, nil
}

// splitLabel strips a leading "label:" token, if present, returning the
// label name (or "") and the remaining tokens.
func splitLabel(tokens []string) (string, []string) {
	if len(tokens) == 0 {
		return "", tokens
	}
	first := tokens[0]
	if len(first) > 1 && first[len(first)-1] == ':' {
		return first[:len(first)-1], tokens[1:]
	}
	return "", tokens
}

// baseLines expands a raw source line into zero or more base
// (non-pseudo) token slices: pseudo-instructions are expanded, and any
// mnemonic that is not a recognized pseudo-instruction passes through
// unchanged (including genuine typos, later reported by encodeBase).
func baseLines(line string, labels map[string]uint32, pc uint32) ([][]string, error) {
	tokens := tokenize(line)
	if len(tokens) > 5 {
		return nil, &TooManyTokens{}
	}

	_, rest := splitLabel(tokens)
	if len(rest) == 0 {
		return nil, nil
	}

	expanded, err := expandPseudo(rest, labels, pc)
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		return [][]string{rest}, nil
	}
	return expanded, nil
}

// AssembleLine assembles one line of source against the given label
// table and PC, inserting a label definition into the table as a side
// effect if the line starts with one. Returns nil for an empty or
// label-only line.
func AssembleLine(line string, labels map[string]uint32, pc uint32) ([]uint32, error) {
	tokens := tokenize(line)
	if len(tokens) > 5 {
		return nil, &TooManyTokens{}
	}

	label, rest := splitLabel(tokens)
	if label != "" {
		labels[label] = pc
	}
	if len(rest) == 0 {
		return nil, nil
	}

	expanded, err := expandPseudo(rest, labels, pc)
	if expanded == nil {
		expanded = [][]string{rest}
	}
	if err != nil {
		return nil, err
	}

	words := make([]uint32, 0, len(expanded))
	for i, base := range expanded {
		word, err := encodeBase(base, labels, pc+uint32(4*i))
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, nil
}

// AssembleProgram assembles a full newline-separated program in two
// passes: pass 1 builds the label table (advancing PC by 4 per
// expanded base instruction), pass 2 encodes every line against the
// completed table.
func AssembleProgram(program string) ([]uint32, error) {
	words, _, err := AssembleProgramWithLabels(program)
	return words, err
}

// AssembleProgramWithLabels is AssembleProgram, additionally returning
// the completed label table so callers (the loader, in particular) can
// resolve an entry-point label after assembly.
func AssembleProgramWithLabels(program string) ([]uint32, map[string]uint32, error) {
	lines := splitLines(program)
	labels := make(map[string]uint32)

	pc := uint32(0)
	for _, line := range lines {
		tokens := tokenize(line)
		if len(tokens) > 5 {
			return nil, nil, &TooManyTokens{}
		}
		label, rest := splitLabel(tokens)
		if label != "" {
			labels[label] = pc
		}
		if len(rest) == 0 {
			continue
		}
		expanded, err := expandPseudo(rest, labels, pc)
		if err != nil {
			return nil, nil, err
		}
		n := 1
		if expanded != nil {
			n = len(expanded)
		}
		pc += uint32(4 * n)
	}

	var words []uint32
	pc = 0
	for _, line := range lines {
		tokens := tokenize(line)
		_, rest := splitLabel(tokens)
		if len(rest) == 0 {
			continue
		}
		expanded, err := expandPseudo(rest, labels, pc)
		if err != nil {
			return nil, nil, err
		}
		if expanded == nil {
			expanded = [][]string{rest}
		}
		for i, base := range expanded {
			word, err := encodeBase(base, labels, pc+uint32(4*i))
			if err != nil {
				return nil, nil, err
			}
			words = append(words, word)
		}
		pc += uint32(4 * len(expanded))
	}

	return words, labels, nil
}

func splitLines(program string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(program); i++ {
		if program[i] == '\n' {
			lines = append(lines, program[start:i])
			start = i + 1
		}
	}
	lines = append(lines, program[start:])
	return lines
}
