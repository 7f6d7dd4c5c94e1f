package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ayusman/handcursor/internal/capture"
	"github.com/ayusman/handcursor/internal/gesture"
	"github.com/ayusman/handcursor/internal/render"
	"github.com/ayusman/handcursor/internal/session"
	"github.com/ayusman/handcursor/internal/store"
)

// Controller starts and stops whatever feeds the session, normally the
// capture pipeline.
type Controller interface {
	Start() error
	Stop()
	IsRunning() bool
}

// sessionControl drives a bare session when there is no pipeline.
type sessionControl struct{ s *session.Session }

func (c sessionControl) Start() error    { c.s.Start(); return nil }
func (c sessionControl) Stop()           { c.s.Stop() }
func (c sessionControl) IsRunning() bool { return c.s.IsActive() }

// SessionHandler serves /api/session and its control sub-routes.
type SessionHandler struct {
	session *session.Session
	control Controller
	store   *store.Store
}

// NewSessionHandler creates a SessionHandler. A nil control toggles the
// session directly. A non-nil store persists surface changes.
func NewSessionHandler(s *session.Session, control Controller, st *store.Store) *SessionHandler {
	if control == nil {
		control = sessionControl{s}
	}
	return &SessionHandler{session: s, control: control, store: st}
}

type sessionResponse struct {
	session.Snapshot
	Label   string          `json:"label"`
	Markers []render.Marker `json:"markers"`
}

type surfaceRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ServeHTTP routes GET /api/session, POST /api/session/{toggle,start,stop,reset}
// and PUT /api/session/surface.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/session"), "/")

	switch {
	case op == "" && r.Method == http.MethodGet:
		h.status(w, http.StatusOK)
	case op == "surface" && r.Method == http.MethodPut:
		h.surface(w, r)
	case r.Method == http.MethodPost:
		h.apply(w, op)
	case op == "":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Unknown session operation")
	}
}

func (h *SessionHandler) apply(w http.ResponseWriter, op string) {
	var err error
	switch op {
	case "toggle":
		if h.control.IsRunning() {
			h.control.Stop()
		} else {
			err = h.control.Start()
		}
	case "start":
		err = h.control.Start()
	case "stop":
		h.control.Stop()
	case "reset":
		h.session.Reset()
	default:
		writeError(w, http.StatusNotFound, "Unknown session operation")
		return
	}

	if err != nil {
		if errors.Is(err, capture.ErrCameraUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.status(w, http.StatusOK)
}

func (h *SessionHandler) surface(w http.ResponseWriter, r *http.Request) {
	var req surfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, "width and height must be positive")
		return
	}

	size := gesture.Size{Width: req.Width, Height: req.Height}
	h.session.SetSurface(size)
	if h.store != nil {
		if err := h.store.Settings().SetJSON(store.SettingSurface, size); err != nil {
			log.Printf("Failed to persist surface: %v", err)
		}
	}
	h.status(w, http.StatusOK)
}

func (h *SessionHandler) status(w http.ResponseWriter, code int) {
	snap := h.session.Snapshot()
	resp := sessionResponse{
		Snapshot: snap,
		Label:    snap.State.Mode.Label(),
		Markers:  h.session.Effects().Active(),
	}
	if !snap.Active {
		resp.Label = "Inactive"
	}
	writeJSON(w, code, resp)
}
