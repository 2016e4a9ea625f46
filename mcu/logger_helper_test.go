package mcu_test

import (
	"log"
	"strings"
)

// loggingBuffer collects one entry per Write call, the unit a
// log.Logger uses per log line.
type loggingBuffer struct {
	lines []string
}

func (b *loggingBuffer) Write(p []byte) (int, error) {
	b.lines = append(b.lines, strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func newTestLogger(b *loggingBuffer) *log.Logger {
	return log.New(b, "", 0)
}
