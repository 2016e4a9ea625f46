package api

import (
	"net/http"

	"github.com/rv32i/emulator/assembler"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": s.sessions.ListSessions(),
	})
}

func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := SessionStatusResponse{
		SessionID: session.ID,
		State:     "ready",
		PC:        session.Mcu.PC,
		Cycles:    session.Cycles,
	}
	if session.LastError != nil {
		resp.State = "error"
		resp.Error = session.LastError.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleLoadProgram(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req LoadProgramRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entryLabel := req.EntryLabel
	if entryLabel == "" {
		entryLabel = "_start"
	}

	words, labels, err := assembler.AssembleProgramWithLabels(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Assembly failed: "+err.Error())
		return
	}

	if err := session.Mcu.Mem.ProgramWords(words); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to load program: "+err.Error())
		return
	}

	entryPC, ok := labels[entryLabel]
	if !ok {
		entryPC = 0
	}
	session.Mcu.PC = entryPC
	session.Cycles = 0
	session.LastError = nil

	writeJSON(w, http.StatusOK, LoadProgramResponse{EntryPC: entryPC, Symbols: labels})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := session.Step(); err != nil {
		writeJSON(w, http.StatusOK, SessionStatusResponse{
			SessionID: session.ID, State: "error", PC: session.Mcu.PC,
			Cycles: session.Cycles, Error: err.Error(),
		})
		return
	}

	s.broadcaster.BroadcastState(sessionID, map[string]interface{}{"pc": session.Mcu.PC, "cycles": session.Cycles})
	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: session.ID, State: "ready", PC: session.Mcu.PC, Cycles: session.Cycles,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req RunRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	reason, runErr := session.Run(req.MaxCycles, req.StopPC)
	resp := RunResponse{
		PC: session.Mcu.PC, Cycles: session.Cycles, StopReason: reason, State: "ready",
	}
	if runErr != nil {
		resp.State = "error"
		resp.Error = runErr.Error()
	}

	s.broadcaster.BroadcastExecutionEvent(sessionID, "run-stopped", map[string]interface{}{
		"reason": reason, "pc": session.Mcu.PC,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	memSize := session.Mcu.Mem.Size()
	logger := session.Mcu.Mem.Logger
	fresh, err := newMcu(memSize, logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	session.Mcu = fresh
	session.Cycles = 0
	session.LastError = nil

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session reset"})
}

func (s *Server) handleGetRegisters(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var regs [32]uint32
	for i := range regs {
		v, _ := session.Mcu.RF.Read(uint32(i))
		regs[i] = v
	}

	writeJSON(w, http.StatusOK, RegistersResponse{
		PC: session.Mcu.PC, Registers: regs, Cycles: session.Cycles,
	})
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	addr, length, err := parseMemoryQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data := make([]byte, 0, length)
	for i := uint32(0); i < length; i++ {
		b, err := session.Mcu.Mem.ReadByte(addr + i)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		data = append(data, byte(b))
	}

	writeJSON(w, http.StatusOK, MemoryResponse{Address: addr, Data: data})
}

func parseMemoryQuery(r *http.Request) (addr, length uint32, err error) {
	q := r.URL.Query()
	a, ok1 := assembler.ParseInt(q.Get("addr"))
	l, ok2 := assembler.ParseInt(q.Get("length"))
	if !ok1 || !ok2 {
		return 0, 0, &invalidQuery{}
	}
	return a, l, nil
}

type invalidQuery struct{}

func (e *invalidQuery) Error() string { return "addr and length query parameters must be integers" }

func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req BreakpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		session.Breakpoints[req.Address] = true
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	case http.MethodDelete:
		addr, ok := assembler.ParseInt(r.URL.Query().Get("address"))
		if !ok {
			writeError(w, http.StatusBadRequest, "address query parameter must be an integer")
			return
		}
		delete(session.Breakpoints, addr)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	addrs := make([]uint32, 0, len(session.Breakpoints))
	for a := range session.Breakpoints {
		addrs = append(addrs, a)
	}
	writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: addrs})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	if err := readJSON(r, s.cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid config body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.cfg)
}
