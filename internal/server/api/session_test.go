package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ayusman/handcursor/internal/capture"
	"github.com/ayusman/handcursor/internal/detector"
	"github.com/ayusman/handcursor/internal/gesture"
	"github.com/ayusman/handcursor/internal/session"
	"github.com/ayusman/handcursor/internal/store"
)

type fakeControl struct {
	running  bool
	startErr error
	starts   int
}

func (c *fakeControl) Start() error {
	c.starts++
	if c.startErr != nil {
		return c.startErr
	}
	c.running = true
	return nil
}

func (c *fakeControl) Stop()           { c.running = false }
func (c *fakeControl) IsRunning() bool { return c.running }

func newTestSession() *session.Session {
	return session.New(session.Config{Surface: gesture.Size{Width: 640, Height: 480}})
}

func TestSessionHandler_Status(t *testing.T) {
	handler := NewSessionHandler(newTestSession(), nil, nil)

	rec := do(t, handler, http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sessionResponse
	decode(t, rec, &resp)
	if resp.Active || resp.Label != "Inactive" {
		t.Errorf("new session reported %+v", resp)
	}
	if resp.State.Cursor.Position != (gesture.Vec2{X: 320, Y: 240}) {
		t.Errorf("cursor = %+v, want center", resp.State.Cursor.Position)
	}
}

func TestSessionHandler_ToggleWithoutController(t *testing.T) {
	sess := newTestSession()
	handler := NewSessionHandler(sess, nil, nil)

	var resp sessionResponse
	decode(t, do(t, handler, http.MethodPost, "/api/session/toggle", nil), &resp)
	if !resp.Active || !sess.IsActive() {
		t.Error("toggle should activate the session")
	}

	do(t, handler, http.MethodPost, "/api/session/stop", nil)
	if sess.IsActive() {
		t.Error("stop should deactivate the session")
	}
}

func TestSessionHandler_Controller(t *testing.T) {
	ctl := &fakeControl{}
	handler := NewSessionHandler(newTestSession(), ctl, nil)

	do(t, handler, http.MethodPost, "/api/session/start", nil)
	if !ctl.running {
		t.Error("start should reach the controller")
	}
	do(t, handler, http.MethodPost, "/api/session/toggle", nil)
	if ctl.running {
		t.Error("toggle should stop a running controller")
	}
}

func TestSessionHandler_CameraFailure(t *testing.T) {
	ctl := &fakeControl{startErr: fmt.Errorf("%w: device busy", capture.ErrCameraUnavailable)}
	handler := NewSessionHandler(newTestSession(), ctl, nil)

	rec := do(t, handler, http.MethodPost, "/api/session/start", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}

	ctl.startErr = errors.New("boom")
	if rec := do(t, handler, http.MethodPost, "/api/session/toggle", nil); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestSessionHandler_Reset(t *testing.T) {
	sess := newTestSession()
	sess.Start()
	hand := detector.Shift(detector.PointingLandmarks(), 0.3, 0.3)
	for i := 0; i < 10; i++ {
		sess.Process([]detector.HandLandmarks{hand})
	}

	var resp sessionResponse
	decode(t, do(t, NewSessionHandler(sess, nil, nil), http.MethodPost, "/api/session/reset", nil), &resp)

	center := gesture.Vec2{X: 320, Y: 240}
	if resp.State.Cursor.Position != center || resp.State.Cursor.Target != center {
		t.Errorf("cursor after reset = %+v", resp.State.Cursor)
	}
}

func TestSessionHandler_Surface(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession()
	handler := NewSessionHandler(sess, nil, s)

	rec := do(t, handler, http.MethodPut, "/api/session/surface", map[string]float64{"width": 1920, "height": 1080})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := sess.Surface(); got.Width != 1920 || got.Height != 1080 {
		t.Errorf("Surface() = %+v", got)
	}

	var stored gesture.Size
	if err := s.Settings().GetJSON(store.SettingSurface, &stored); err != nil || stored.Width != 1920 {
		t.Errorf("persisted surface = %+v, %v", stored, err)
	}

	if rec := do(t, handler, http.MethodPut, "/api/session/surface", map[string]float64{"width": 0, "height": 10}); rec.Code != http.StatusBadRequest {
		t.Errorf("zero width: expected 400, got %d", rec.Code)
	}
}

func TestSessionHandler_Unknown(t *testing.T) {
	handler := NewSessionHandler(newTestSession(), nil, nil)

	if rec := do(t, handler, http.MethodPost, "/api/session/explode", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, handler, http.MethodDelete, "/api/session", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
