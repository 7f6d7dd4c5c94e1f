package gesture

import "fmt"

// Gesture is one of the five cursor poses.
type Gesture int

const (
	// Other is any finger combination without a dedicated meaning.
	Other Gesture = iota
	// Move is the index finger alone; the cursor follows it.
	Move
	// Click is a closed hand.
	Click
	// RightClick is the victory sign (index and middle).
	RightClick
	// Drag is an open hand.
	Drag
)

// String returns the mode name used by renderers.
func (g Gesture) String() string {
	switch g {
	case Move:
		return "move"
	case Click:
		return "click"
	case RightClick:
		return "right-click"
	case Drag:
		return "drag"
	default:
		return "other"
	}
}

// Label returns the human-readable status text for the gesture.
func (g Gesture) Label() string {
	switch g {
	case Move:
		return "Cursor Move"
	case Click:
		return "Click"
	case RightClick:
		return "Right Click"
	case Drag:
		return "Drag Mode"
	default:
		return "Other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ParseGesture is the inverse of Gesture.String.
func ParseGesture(s string) (Gesture, error) {
	for _, g := range []Gesture{Other, Move, Click, RightClick, Drag} {
		if g.String() == s {
			return g, nil
		}
	}
	return Other, fmt.Errorf("unknown gesture %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gesture) UnmarshalText(text []byte) error {
	parsed, err := ParseGesture(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Classify maps the four non-thumb fingers to a gesture. The thumb is ignored.
//
//	index middle ring pinky
//	  up   down  down  down   Move
//	 down  down  down  down   Click
//	  up    up   down  down   RightClick
//	  up    up    up    up    Drag
//	  anything else           Other
func Classify(f FingerState) Gesture {
	switch {
	case f.Index && !f.Middle && !f.Ring && !f.Pinky:
		return Move
	case !f.Index && !f.Middle && !f.Ring && !f.Pinky:
		return Click
	case f.Index && f.Middle && !f.Ring && !f.Pinky:
		return RightClick
	case f.Index && f.Middle && f.Ring && f.Pinky:
		return Drag
	default:
		return Other
	}
}
