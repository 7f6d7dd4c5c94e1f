// Package session holds one hand-tracking session: the cursor state machine plus
// the collaborators it reports to.
package session

import (
	"log"
	"sync"

	"github.com/ayusman/handcursor/internal/detector"
	"github.com/ayusman/handcursor/internal/gesture"
	"github.com/ayusman/handcursor/internal/render"
)

// ActionFunc is called once for every click or right-click the session fires.
type ActionFunc func(e gesture.Effect)

// Config holds the collaborators of a Session.
type Config struct {
	// Surface is the size of the rendering surface in pixels.
	Surface gesture.Size
	// Sink receives frames, markers and notifications. Nil discards output.
	Sink render.Sink
	// Effects tracks on-screen markers. Nil creates a board with the default TTL.
	Effects *render.EffectBoard
	// OnAction is invoked for every fired action. Optional.
	OnAction ActionFunc
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	Active      bool                `json:"active"`
	Surface     gesture.Size        `json:"surface"`
	State       gesture.State       `json:"state"`
	Gesture     string              `json:"gesture"`
	Fingers     gesture.FingerState `json:"fingers"`
	HandVisible bool                `json:"hand_visible"`
	Frames      int64               `json:"frames"`
}

// Session interprets per-frame hand landmarks into cursor movement and actions.
// Frames are processed one at a time; concurrent callers are serialized.
type Session struct {
	surface  gesture.Size
	sink     render.Sink
	effects  *render.EffectBoard
	onAction ActionFunc

	state       gesture.State
	last        gesture.Result
	handVisible bool
	frames      int64
	active      bool
	mu          sync.Mutex

	// frameMu serializes Process and Reset so sink output stays in frame order.
	frameMu sync.Mutex
}

type discard struct{}

func (discard) Render(render.Frame)   {}
func (discard) Effect(render.Marker)  {}
func (discard) Notify(message string) {}

// New creates an inactive session with the cursor parked at the surface center.
func New(config Config) *Session {
	s := &Session{
		surface:  config.Surface,
		sink:     config.Sink,
		effects:  config.Effects,
		onAction: config.OnAction,
	}
	if s.sink == nil {
		s.sink = discard{}
	}
	if s.effects == nil {
		s.effects = render.NewEffectBoard(render.EffectTTL)
	}
	s.state = s.state.Reset(s.surface)
	return s
}

// Start enables frame processing.
func (s *Session) Start() {
	s.setActive(true)
}

// Stop disables frame processing. The next frame is simply not processed.
func (s *Session) Stop() {
	s.setActive(false)
}

// Toggle flips the active state and returns the new value.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	active := !s.active
	s.mu.Unlock()

	s.setActive(active)
	return active
}

func (s *Session) setActive(active bool) {
	s.mu.Lock()
	changed := s.active != active
	s.active = active
	s.mu.Unlock()

	if !changed {
		return
	}
	if active {
		log.Println("Gesture control active")
	} else {
		log.Println("Gesture control inactive")
	}
}

// IsActive reports whether frames are being processed.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Process handles the detection results for one camera frame. Only the first
// hand is used. Frames arriving while the session is inactive are dropped.
func (s *Session) Process(hands []detector.HandLandmarks) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	s.mu.Lock()

	if !s.active {
		s.mu.Unlock()
		return
	}
	s.frames++

	hand := detector.Primary(hands)
	if hand == nil {
		s.handVisible = false
		frame := render.NewFrame(s.state, true)
		frame.HandDetected = false
		frame.Label = "No hand detected"
		s.mu.Unlock()

		s.sink.Render(frame)
		return
	}

	res := gesture.Step(hand, s.state, s.surface)
	s.state = res.State
	s.last = res
	s.handVisible = true

	frame := render.NewFrame(res.State, true)
	frame.Fingers = &res.Fingers
	onAction := s.onAction
	s.mu.Unlock()

	for _, e := range res.Effects {
		log.Printf("%s at: (%.0f, %.0f)", e.Action, e.At.X, e.At.Y)
		s.sink.Effect(s.effects.Add(e))
		if onAction != nil {
			onAction(e)
		}
	}
	s.sink.Render(frame)
}

// Reset moves the cursor to the surface center, bypassing smoothing.
func (s *Session) Reset() {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	s.mu.Lock()
	s.state = s.state.Reset(s.surface)
	frame := render.NewFrame(s.state, s.active)
	frame.HandDetected = s.handVisible
	s.mu.Unlock()

	s.sink.Render(frame)
}

// SetSurface changes the rendering surface size. The cursor is not moved; the
// next frame targets the new dimensions.
func (s *Session) SetSurface(size gesture.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = size
}

// Surface returns the current rendering surface size.
func (s *Session) Surface() gesture.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Notify forwards a user-facing message to the sink.
func (s *Session) Notify(message string) {
	s.sink.Notify(message)
}

// Effects returns the board tracking on-screen markers.
func (s *Session) Effects() *render.EffectBoard {
	return s.effects
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Active:      s.active,
		Surface:     s.surface,
		State:       s.state,
		Gesture:     s.state.Mode.String(),
		Fingers:     s.last.Fingers,
		HandVisible: s.handVisible,
		Frames:      s.frames,
	}
}
