package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tmcnab/schoolbell/internal/schedule"
)

// Request bodies. Index fields use pointers so "missing" and "zero"
// stay distinguishable.
type presetRequest struct {
	Name string `json:"name"`
}

type bellRequest struct {
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

type activeRequest struct {
	Index *int `json:"index"` // -1 clears the selection
}

type durationRequest struct {
	Ms *int `json:"ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case schedule.IsValidation(err):
		code = http.StatusBadRequest
	case errors.Is(err, schedule.ErrNotFound):
		code = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte("{\"ok\":true}\n"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

// handlePresets handles POST /api/presets.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req presetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.sched.AddPreset(req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// handlePresetSub handles:
//
//	DELETE /api/presets/{i}
//	POST   /api/presets/{i}/bells
//	DELETE /api/presets/{i}/bells/{j}
func (s *Server) handlePresetSub(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	preset, err := strconv.Atoi(parts[0])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := s.sched.DeletePreset(preset); err != nil {
			writeError(w, err)
			return
		}
		writeOK(w)

	case len(parts) == 2 && parts[1] == "bells" && r.Method == http.MethodPost:
		var req bellRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Hour == nil || req.Minute == nil {
			http.Error(w, "hour and minute required", http.StatusBadRequest)
			return
		}
		if err := s.sched.AddBell(preset, *req.Hour, *req.Minute); err != nil {
			writeError(w, err)
			return
		}
		writeOK(w)

	case len(parts) == 3 && parts[1] == "bells" && r.Method == http.MethodDelete:
		bell, err := strconv.Atoi(parts[2])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := s.sched.DeleteBell(preset, bell); err != nil {
			writeError(w, err)
			return
		}
		writeOK(w)

	default:
		http.NotFound(w, r)
	}
}

// handleActive handles PUT /api/active.
func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req activeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Index == nil {
		http.Error(w, "index required", http.StatusBadRequest)
		return
	}
	if err := s.sched.SetActive(*req.Index); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// handleDuration handles PUT /api/duration.
func (s *Server) handleDuration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req durationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Ms == nil {
		http.Error(w, "ms required", http.StatusBadRequest)
		return
	}
	if err := s.sched.SetBellDuration(*req.Ms); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// handleRing handles POST /api/ring: a manual ring, same semantics as
// the panel button. The ring is queued for the next control-loop
// tick, so the response says accepted, not rung.
func (s *Server) handleRing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.sched.RingNow()
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("{\"ok\":true}\n"))
}
