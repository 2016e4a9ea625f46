package debugger

import (
	"fmt"

	"github.com/rv32i/emulator/mcu"
)

// ExpressionEvaluator evaluates debugger expressions (registers,
// memory dereferences, symbols, numeric literals, and the usual
// arithmetic/bitwise operators) via a small tokenizer and a
// precedence-climbing parser (expr_lexer.go, expr_parser.go).
type ExpressionEvaluator struct {
	valueHistory []uint32 // History of evaluated values, for $1, $2, ...
	valueNumber  int
}

// NewExpressionEvaluator creates a new expression evaluator
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{
		valueHistory: make([]uint32, 0),
	}
}

// EvaluateExpression evaluates an expression and records the result in
// the value history.
func (e *ExpressionEvaluator) EvaluateExpression(expr string, mem *mcu.Memory, rf *mcu.RegisterFile, pc uint32, symbols map[string]uint32) (uint32, error) {
	result, err := e.evaluate(expr, mem, rf, pc, symbols)
	if err != nil {
		return 0, err
	}

	e.valueHistory = append(e.valueHistory, result)
	e.valueNumber = len(e.valueHistory)

	return result, nil
}

// Evaluate evaluates an expression and returns a boolean result (for
// breakpoint/watchpoint conditions).
func (e *ExpressionEvaluator) Evaluate(expr string, mem *mcu.Memory, rf *mcu.RegisterFile, pc uint32, symbols map[string]uint32) (bool, error) {
	result, err := e.evaluate(expr, mem, rf, pc, symbols)
	if err != nil {
		return false, err
	}

	return result != 0, nil
}

// GetValueNumber returns the current value number
func (e *ExpressionEvaluator) GetValueNumber() int {
	return e.valueNumber
}

// GetValue returns a value from history by number
func (e *ExpressionEvaluator) GetValue(number int) (uint32, error) {
	if number < 1 || number > len(e.valueHistory) {
		return 0, fmt.Errorf("value $%d not in history", number)
	}

	return e.valueHistory[number-1], nil
}

// evaluate tokenizes and parses expr against the given machine state.
func (e *ExpressionEvaluator) evaluate(expr string, mem *mcu.Memory, rf *mcu.RegisterFile, pc uint32, symbols map[string]uint32) (uint32, error) {
	if expr == "" {
		return 0, fmt.Errorf("empty expression")
	}

	tokens := NewExprLexer(expr).TokenizeAll()
	parser := NewExprParser(tokens, mem, rf, pc, symbols, e)
	return parser.Parse()
}

// Reset clears the value history
func (e *ExpressionEvaluator) Reset() {
	e.valueHistory = e.valueHistory[:0]
	e.valueNumber = 0
}
