package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(0, nil)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func createTestSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/session", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp SessionCreateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.SessionID
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateLoadStepRun(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	loadReq := LoadProgramRequest{Source: "addi t0, x0, 5\naddi t1, x0, 4\nadd a0, t0, t1\n"}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/session/"+id+"/load", loadReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("load: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/session/"+id+"/step", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("step: status %d, body %s", rec.Code, rec.Body.String())
	}
	var stepResp SessionStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stepResp); err != nil {
		t.Fatal(err)
	}
	if stepResp.PC != 4 || stepResp.Cycles != 1 {
		t.Errorf("after step: pc = %d, cycles = %d, want 4, 1", stepResp.PC, stepResp.Cycles)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/session/"+id+"/run", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("run: status %d, body %s", rec.Code, rec.Body.String())
	}
	var runResp RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &runResp); err != nil {
		t.Fatal(err)
	}
	if runResp.StopReason != "error" {
		t.Errorf("run stopped for %q, want error (execution runs past the program into zeroed memory, an invalid opcode)", runResp.StopReason)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/session/"+id+"/registers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("registers: status %d", rec.Code)
	}
	var regs RegistersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &regs); err != nil {
		t.Fatal(err)
	}
	if regs.Registers[10] != 9 { // a0 = x10
		t.Errorf("a0 = %d, want 9", regs.Registers[10])
	}
}

func TestBreakpointLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/session/"+id+"/breakpoint", BreakpointRequest{Address: 8})
	if rec.Code != http.StatusOK {
		t.Fatalf("add breakpoint: status %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/session/"+id+"/breakpoints", nil)
	var bps BreakpointsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bps); err != nil {
		t.Fatal(err)
	}
	if len(bps.Breakpoints) != 1 || bps.Breakpoints[0] != 8 {
		t.Errorf("breakpoints = %v, want [8]", bps.Breakpoints)
	}
}

func TestDestroySessionRemovesIt(t *testing.T) {
	srv := newTestServer(t)
	id := createTestSession(t, srv)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/session/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("destroy: status %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/session/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after destroy = %d, want 404", rec.Code)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/session/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
