package gesture

import "github.com/ayusman/handcursor/internal/detector"

// Action identifies a one-shot pointer action.
type Action string

const (
	ActionClick      Action = "click"
	ActionRightClick Action = "right-click"
)

// Effect is an action fired by a frame, located where the cursor was when the
// pose was recognized.
type Effect struct {
	Action Action `json:"action"`
	At     Vec2   `json:"at"`
}

// State is everything the tracker carries from one frame to the next. The zero
// value is a cursor parked at the origin with no latch set.
type State struct {
	Cursor   Cursor  `json:"cursor"`
	Mode     Gesture `json:"mode"`
	Dragging bool    `json:"dragging"`
	// Clicking latches after a click or right-click fires and is released only
	// by an Other pose.
	Clicking bool `json:"clicking"`
}

// Reset parks the cursor at the center of the surface. Mode and latches are kept.
func (s State) Reset(surface Size) State {
	s.Cursor.Reset(surface.Center())
	return s
}

// Result is the outcome of one processed frame.
type Result struct {
	Gesture Gesture     `json:"gesture"`
	Fingers FingerState `json:"fingers"`
	State   State       `json:"state"`
	Effects []Effect    `json:"effects,omitempty"`
}

// Step processes one frame containing a hand. It does not modify prev.
func Step(hand *detector.HandLandmarks, prev State, surface Size) Result {
	next := prev

	x, y := hand.Pixel(detector.IndexTip, surface.Width, surface.Height)
	next.Cursor.Target = Vec2{X: x, Y: y}

	fingers := Fingers(hand)
	g := Classify(fingers)
	next.Mode = g

	var effects []Effect
	switch g {
	case Move:
		next.Dragging = false
	case Click, RightClick:
		if !next.Clicking {
			action := ActionClick
			if g == RightClick {
				action = ActionRightClick
			}
			effects = append(effects, Effect{Action: action, At: next.Cursor.Position})
			next.Clicking = true
		}
	case Drag:
		next.Dragging = true
	default:
		next.Clicking = false
	}

	next.Cursor.Step()

	return Result{
		Gesture: g,
		Fingers: fingers,
		State:   next,
		Effects: effects,
	}
}
