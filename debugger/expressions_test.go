package debugger

import (
	"testing"

	"github.com/rv32i/emulator/mcu"
)

func newTestMachine(t *testing.T) *mcu.Mcu {
	t.Helper()
	m, err := mcu.New(1 << 16)
	if err != nil {
		t.Fatalf("mcu.New() error = %v", err)
	}
	return m
}

func TestExpressionEvaluator_Numbers(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"Decimal", "42", 42},
		{"Hex", "0x100", 0x100},
		{"Hex uppercase", "0X1A", 0x1A},
		{"Binary", "0b1010", 0b1010},
		{"Negative", "-1", 0xFFFFFFFF},
		{"Large hex", "0xFFFFFFFF", 0xFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Registers(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	if err := m.RF.Write(5, 200); err != nil {
		t.Fatalf("RF.Write(5) error = %v", err)
	}
	if err := m.RF.Write(2, 0x1000); err != nil { // sp
		t.Fatalf("RF.Write(2) error = %v", err)
	}
	if err := m.RF.Write(1, 0x2000); err != nil { // ra
		t.Fatalf("RF.Write(1) error = %v", err)
	}
	m.PC = 0x3000

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"x0 always zero", "x0", 0},
		{"x5", "x5", 200},
		{"sp alias", "sp", 0x1000},
		{"x2 form", "x2", 0x1000},
		{"ra alias", "ra", 0x2000},
		{"x1 form", "x1", 0x2000},
		{"pc", "pc", 0x3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Symbols(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := map[string]uint32{
		"main":   0x1000,
		"loop":   0x2000,
		"_start": 0x3000,
	}

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"main", "main", 0x1000},
		{"loop", "loop", 0x2000},
		{"_start", "_start", 0x3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Memory(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)

	dataAddr := uint32(0x2000)
	symbols := map[string]uint32{
		"data": dataAddr,
	}

	if err := m.Mem.WriteWord(dataAddr, 0x12345678); err != nil {
		t.Fatalf("WriteWord() error = %v", err)
	}
	if err := m.Mem.WriteWord(dataAddr+0x100, 0xABCDEF00); err != nil {
		t.Fatalf("WriteWord() error = %v", err)
	}

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"Bracket notation", "[0x2000]", 0x12345678},
		{"Star notation", "*0x2100", 0xABCDEF00},
		{"Symbol in brackets", "[data]", 0x12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Arithmetic(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"Addition", "10 + 20", 30},
		{"Subtraction", "50 - 20", 30},
		{"Multiplication", "5 * 6", 30},
		{"Division", "60 / 2", 30},
		{"Hex addition", "0x10 + 0x20", 0x30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Bitwise(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"AND", "0xFF & 0x0F", 0x0F},
		{"OR", "0xF0 | 0x0F", 0xFF},
		{"XOR", "0xFF ^ 0x0F", 0xF0},
		{"Left shift", "1 << 4", 16},
		{"Right shift", "16 >> 2", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_RegisterOperations(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	if err := m.RF.Write(10, 10); err != nil {
		t.Fatalf("RF.Write() error = %v", err)
	}
	if err := m.RF.Write(11, 20); err != nil {
		t.Fatalf("RF.Write() error = %v", err)
	}

	tests := []struct {
		name string
		expr string
		want uint32
	}{
		{"Register addition", "x10 + x11", 30},
		{"Register with constant", "x10 + 5", 15},
		{"Register subtraction", "x11 - x10", 10},
		{"ABI alias addition", "a0 + a1", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("EvaluateExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateExpression() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_ValueHistory(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	val1, err := eval.EvaluateExpression("42", m.Mem, m.RF, m.PC, symbols)
	if err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}
	val2, err := eval.EvaluateExpression("100", m.Mem, m.RF, m.PC, symbols)
	if err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}

	if eval.GetValueNumber() != 2 {
		t.Errorf("ValueNumber = %d, want 2", eval.GetValueNumber())
	}

	got1, err := eval.GetValue(1)
	if err != nil {
		t.Fatalf("GetValue(1) error = %v", err)
	}
	if got1 != val1 {
		t.Errorf("GetValue(1) = %d, want %d", got1, val1)
	}

	got2, err := eval.GetValue(2)
	if err != nil {
		t.Fatalf("GetValue(2) error = %v", err)
	}
	if got2 != val2 {
		t.Errorf("GetValue(2) = %d, want %d", got2, val2)
	}

	_, err = eval.GetValue(999)
	if err == nil {
		t.Error("Expected error for invalid value number")
	}
}

func TestExpressionEvaluator_BooleanEvaluation(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	if err := m.RF.Write(10, 42); err != nil {
		t.Fatalf("RF.Write() error = %v", err)
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"Zero is false", "0", false},
		{"Non-zero is true", "42", true},
		{"Register non-zero", "a0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionEvaluator_Errors(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	tests := []struct {
		name string
		expr string
	}{
		{"Empty expression", ""},
		{"Unknown symbol", "unknown_symbol"},
		{"Invalid register", "x99"},
		{"Division by zero", "10 / 0"},
		{"Invalid hex", "0xGGGG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.EvaluateExpression(tt.expr, m.Mem, m.RF, m.PC, symbols)
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestExpressionEvaluator_Reset(t *testing.T) {
	eval := NewExpressionEvaluator()
	m := newTestMachine(t)
	symbols := make(map[string]uint32)

	if _, err := eval.EvaluateExpression("42", m.Mem, m.RF, m.PC, symbols); err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}
	if _, err := eval.EvaluateExpression("100", m.Mem, m.RF, m.PC, symbols); err != nil {
		t.Fatalf("EvaluateExpression() error = %v", err)
	}

	if eval.GetValueNumber() != 2 {
		t.Error("Value number should be 2 before reset")
	}

	eval.Reset()

	if eval.GetValueNumber() != 0 {
		t.Error("Value number should be 0 after reset")
	}

	if len(eval.valueHistory) != 0 {
		t.Error("Value history should be empty after reset")
	}
}
