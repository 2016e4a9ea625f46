package assembler

import "strings"

// tokenize lowercases a line, treats commas and parentheses as
// whitespace, and splits on whitespace. Order is preserved, so
// "lw t0, 8(s0)" and "lw t0 8 s0" yield the same token stream.
func tokenize(line string) []string {
	r := strings.NewReplacer(",", " ", "(", " ", ")", " ")
	line = strings.ToLower(r.Replace(line))
	return strings.Fields(line)
}
