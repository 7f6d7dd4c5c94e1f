package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/handcursor/internal/store"
)

// DefaultEventLimit caps GET /api/events when no limit is given.
const DefaultEventLimit = 100

// EventHandler serves the recorded click history at /api/events.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type eventResponse struct {
	ID        string  `json:"id"`
	RunID     string  `json:"run_id,omitempty"`
	Action    string  `json:"action"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	CreatedAt string  `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
	Counts map[string]int  `json:"counts"`
}

// ServeHTTP handles GET (optionally ?limit=N or ?run=ID) and DELETE.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		if err := h.store.Events().DeleteAll(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete events")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	var (
		events []*store.Event
		err    error
	)
	if run := r.URL.Query().Get("run"); run != "" {
		events, err = h.store.Events().ListByRun(run)
	} else {
		events, err = h.store.Events().List(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	resp := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
		Counts: map[string]int{},
	}
	for _, e := range events {
		resp.Events = append(resp.Events, eventResponse{
			ID:        e.ID,
			RunID:     e.RunID,
			Action:    e.Action,
			X:         e.X,
			Y:         e.Y,
			CreatedAt: formatTime(e.CreatedAt),
		})
	}
	for _, action := range []string{"click", "right-click"} {
		n, err := h.store.Events().Count(action)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count events")
			return
		}
		resp.Counts[action] = n
	}

	writeJSON(w, http.StatusOK, resp)
}
