package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/rv32i/emulator/mcu"
	"github.com/rv32i/emulator/vm"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when a generated ID collides.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

const defaultMemorySize = 1 << 20 // 1 MiB
const defaultMaxCycles = 1_000_000

// Session is a single active machine, with the breakpoint set and
// cycle counter the API layer tracks on top of the bare vm.Step loop.
type Session struct {
	ID          string
	Mcu         *mcu.Mcu
	CreatedAt   time.Time
	Cycles      uint64
	LastError   error
	Breakpoints map[uint32]bool
	mu          sync.Mutex
}

// Step advances the session's machine by one instruction.
func (s *Session) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := vm.Step(&s.Mcu.PC, s.Mcu.Mem, s.Mcu.RF)
	if err != nil {
		s.LastError = err
		return err
	}
	s.Cycles++
	return nil
}

// Run steps the session until a breakpoint, stopPC, maxCycles, or an
// error is reached, returning a reason for stopping. stopPC/breakpoint
// checks run against the PC *after* each step, so a run started at an
// address carrying its own breakpoint does not stop immediately.
func (s *Session) Run(maxCycles uint64, stopPC *uint32) (reason string, err error) {
	if maxCycles == 0 {
		maxCycles = defaultMaxCycles
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if s.Cycles >= maxCycles {
			return "max-cycles", nil
		}
		if stepErr := vm.Step(&s.Mcu.PC, s.Mcu.Mem, s.Mcu.RF); stepErr != nil {
			s.LastError = stepErr
			return "error", stepErr
		}
		s.Cycles++

		if stopPC != nil && s.Mcu.PC == *stopPC {
			return "stop-pc", nil
		}
		if s.Breakpoints[s.Mcu.PC] {
			return "breakpoint", nil
		}
	}
}

// SessionManager manages multiple machine sessions.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession creates a new session with a unique ID.
func (sm *SessionManager) CreateSession(opts SessionCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	memSize := int(opts.MemorySize)
	if memSize <= 0 {
		memSize = defaultMemorySize
	}

	var logger *log.Logger
	if sm.broadcaster != nil {
		logger = log.New(NewEventWriter(sm.broadcaster, sessionID), "", 0)
	} else {
		debugLog("Session %s: no broadcaster available for trace events", sessionID)
	}

	m, err := newMcu(memSize, logger)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          sessionID,
		Mcu:         m,
		CreatedAt:   time.Now(),
		Breakpoints: make(map[uint32]bool),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}
	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns every active session ID.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// newMcu builds a fresh machine of the given memory size, optionally
// wiring a logger for memory-access trace broadcasting.
func newMcu(memSize int, logger *log.Logger) (*mcu.Mcu, error) {
	m, err := mcu.New(memSize)
	if err != nil {
		return nil, err
	}
	m.Mem.Logger = logger
	return m, nil
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
