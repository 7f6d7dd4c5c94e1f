// Package render defines the output side of a cursor session: the frames, effect
// markers and notifications a display consumes.
package render

import (
	"sync"
	"time"

	"github.com/ayusman/handcursor/internal/gesture"
)

// Marker colors.
const (
	ColorClick      = "#44ff44"
	ColorRightClick = "#4444ff"
	ColorMove       = "#ff4444"
	ColorDrag       = "#ffaa00"
)

// Frame is the cursor as it should be drawn after one processed camera frame.
type Frame struct {
	Position     gesture.Vec2         `json:"position"`
	Mode         string               `json:"mode"`
	Label        string               `json:"label"`
	Color        string               `json:"color"`
	Fingers      *gesture.FingerState `json:"fingers,omitempty"`
	HandDetected bool                 `json:"hand_detected"`
	Dragging     bool                 `json:"dragging"`
	Active       bool                 `json:"active"`
}

// Marker is a transient click indicator.
type Marker struct {
	ID        string         `json:"id"`
	Action    gesture.Action `json:"action"`
	Position  gesture.Vec2   `json:"position"`
	Color     string         `json:"color"`
	CreatedAt time.Time      `json:"created_at"`
}

// Sink consumes rendered output.
type Sink interface {
	// Render draws the cursor.
	Render(f Frame)
	// Effect shows a transient marker.
	Effect(m Marker)
	// Notify shows a message to the user.
	Notify(message string)
}

// ModeColor returns the cursor color for a gesture.
func ModeColor(g gesture.Gesture) string {
	switch g {
	case gesture.RightClick:
		return ColorRightClick
	case gesture.Drag:
		return ColorDrag
	default:
		return ColorMove
	}
}

// ActionColor returns the marker color for an action.
func ActionColor(a gesture.Action) string {
	if a == gesture.ActionRightClick {
		return ColorRightClick
	}
	return ColorClick
}

// NewFrame builds the frame for a tracker state.
func NewFrame(state gesture.State, active bool) Frame {
	return Frame{
		Position:     state.Cursor.Position,
		Mode:         state.Mode.String(),
		Label:        state.Mode.Label(),
		Color:        ModeColor(state.Mode),
		HandDetected: true,
		Dragging:     state.Dragging,
		Active:       active,
	}
}

// Fanout forwards every call to each of its sinks in order.
type Fanout []Sink

func (f Fanout) Render(fr Frame) {
	for _, s := range f {
		s.Render(fr)
	}
}

func (f Fanout) Effect(m Marker) {
	for _, s := range f {
		s.Effect(m)
	}
}

func (f Fanout) Notify(message string) {
	for _, s := range f {
		s.Notify(message)
	}
}

// Recorder is a Sink that keeps everything it receives. It is safe for
// concurrent use.
type Recorder struct {
	mu       sync.Mutex
	frames   []Frame
	markers  []Marker
	messages []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *Recorder) Effect(m Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, m)
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Markers returns a copy of the recorded markers.
func (r *Recorder) Markers() []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Marker(nil), r.markers...)
}

// Messages returns a copy of the recorded notifications.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Last returns the most recent frame, if any.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}
