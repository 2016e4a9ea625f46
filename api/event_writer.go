package api

import (
	"strings"
	"sync"
)

// EventWriter is an io.Writer that broadcasts every line written to it
// as a trace event to WebSocket subscribers. A session attaches one to
// its mcu.Memory.Logger so logged (non-Fetch) memory accesses become
// live trace events instead of being silently discarded.
type EventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	mu          sync.Mutex
}

// NewEventWriter creates a new trace-broadcasting writer for a session.
func NewEventWriter(broadcaster *Broadcaster, sessionID string) *EventWriter {
	return &EventWriter{broadcaster: broadcaster, sessionID: sessionID}
}

// Write implements io.Writer. log.Logger always calls Write once per
// line (including the trailing newline), so each call is broadcast as
// one trace event with the newline trimmed.
func (w *EventWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.broadcaster != nil {
		w.broadcaster.BroadcastTrace(w.sessionID, strings.TrimRight(string(p), "\n"))
	}
	return len(p), nil
}
