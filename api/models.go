package api

import "time"

// SessionCreateRequest is a request to create a new session.
type SessionCreateRequest struct {
	MemorySize uint32 `json:"memorySize,omitempty"` // bytes, default 1 MiB
}

// SessionCreateResponse is the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse is the current status of a session.
type SessionStatusResponse struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"` // "ready", "error"
	PC        uint32 `json:"pc"`
	Cycles    uint64 `json:"cycles"`
	Error     string `json:"error,omitempty"`
}

// LoadProgramRequest is a request to assemble and load source into a
// session's memory.
type LoadProgramRequest struct {
	Source     string `json:"source"`
	EntryLabel string `json:"entryLabel,omitempty"` // default: "_start"
}

// LoadProgramResponse is the outcome of a load request.
type LoadProgramResponse struct {
	EntryPC uint32            `json:"entryPc"`
	Symbols map[string]uint32 `json:"symbols,omitempty"`
}

// RunRequest controls a run-to-completion request.
type RunRequest struct {
	MaxCycles uint64  `json:"maxCycles,omitempty"` // 0 = session default
	StopPC    *uint32 `json:"stopPc,omitempty"`
}

// RunResponse reports how a run ended.
type RunResponse struct {
	State      string `json:"state"`
	PC         uint32 `json:"pc"`
	Cycles     uint64 `json:"cycles"`
	StopReason string `json:"stopReason"` // "stop-pc", "max-cycles", "breakpoint", "error"
	Error      string `json:"error,omitempty"`
}

// RegistersResponse is the full register file plus PC.
type RegistersResponse struct {
	PC        uint32     `json:"pc"`
	Registers [32]uint32 `json:"registers"` // x0..x31, ABI-ordered per isa.RegNames
	Cycles    uint64     `json:"cycles"`
}

// MemoryResponse is a byte range read from session memory.
type MemoryResponse struct {
	Address uint32 `json:"address"`
	Data    []byte `json:"data"`
}

// BreakpointRequest adds or removes a breakpoint.
type BreakpointRequest struct {
	Address uint32 `json:"address"`
}

// BreakpointsResponse lists active breakpoints.
type BreakpointsResponse struct {
	Breakpoints []uint32 `json:"breakpoints"`
}

// ErrorResponse is a uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse is a uniform simple-success payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
