package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"voxhire/agent/internal/agent"
	"voxhire/agent/internal/auth"
	"voxhire/agent/internal/config"
	"voxhire/agent/internal/store"
	"voxhire/agent/internal/types"
)

type Handlers struct {
	cfg    config.Config
	store  *store.Store
	runner *agent.Runner
}

func NewHandlers(cfg config.Config, st *store.Store, r *agent.Runner) *Handlers {
	return &Handlers{cfg: cfg, store: st, runner: r}
}

func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Session.TokenSecret == "" {
		http.Error(w, "session auth not configured", http.StatusBadRequest)
		return
	}
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	id := uuid.New().String()
	sess := &types.Session{
		ID:             id,
		CandidateName:  req.Name,
		CandidateEmail: req.Email,
		CreatedAt:      time.Now().UTC(),
		Status:         "created",
	}
	if err := h.store.CreateSession(sess); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.store.AppendEvent(id, "session_created", map[string]any{"candidate": req.Email})

	exp := time.Now().Add(time.Duration(h.cfg.Session.TokenExpMin) * time.Minute).Unix()
	token := auth.GenerateSessionToken(h.cfg.Session.TokenSecret, id, exp)

	writeJSON(w, map[string]any{
		"session_id": id,
		"token":      token,
		"ws_path":    "/ws/session?session_id=" + id,
	})
}

func (h *Handlers) HandleStartSession(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	if h.runner.IsRunning(id) {
		h.store.AppendEvent(id, "interview_start_requested", map[string]any{"noop": true})
		writeJSON(w, map[string]any{"ok": true, "running": true})
		return
	}
	h.store.AppendEvent(id, "interview_start_requested", nil)
	if err := h.runner.Start(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "running": true})
}

func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	if !h.runner.IsRunning(id) {
		h.store.AppendEvent(id, "interview_end_requested", map[string]any{"noop": true})
		writeJSON(w, map[string]any{"ok": true, "running": false})
		return
	}
	h.store.AppendEvent(id, "interview_end_requested", nil)
	_ = h.runner.End(id)
	writeJSON(w, map[string]any{"ok": true, "running": false})
}

func (h *Handlers) HandleListEvents(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"session_id": id,
		"events":     h.store.ListEvents(id),
	})
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request, id string) {
	sess := h.store.GetSession(id)
	if sess == nil {
		http.NotFound(w, r)
		return
	}
	if snap, ok := h.runner.Status(id); ok {
		writeJSON(w, map[string]any{"session_id": id, "status": sess.Status, "turn": snap})
		return
	}
	writeJSON(w, map[string]any{"session_id": id, "status": sess.Status})
}

// HandleJump lets the presentation layer ask for a section; the controller
// resolves the actual question itself.
func (h *Handlers) HandleJump(w http.ResponseWriter, r *http.Request, id string) {
	if h.store.GetSession(id) == nil {
		http.NotFound(w, r)
		return
	}
	var req struct {
		SectionID int64 `json:"section_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SectionID <= 0 {
		http.Error(w, "invalid section_id", http.StatusBadRequest)
		return
	}
	if err := h.runner.Jump(id, req.SectionID); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.store.AppendEvent(id, "jump_requested", map[string]any{"section_id": req.SectionID})
	writeJSON(w, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
