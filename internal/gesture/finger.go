// Package gesture turns hand landmarks into cursor gestures: it extracts which
// fingers are extended, classifies the pose, and smooths the cursor position.
package gesture

import "github.com/ayusman/handcursor/internal/detector"

// FingerState reports which fingers are extended.
type FingerState struct {
	Thumb  bool `json:"thumb"`
	Index  bool `json:"index"`
	Middle bool `json:"middle"`
	Ring   bool `json:"ring"`
	Pinky  bool `json:"pinky"`
}

// isUp reports whether the tip sits strictly above the reference joint. Image
// coordinates grow downward, so "above" means a smaller Y.
func isUp(hand *detector.HandLandmarks, tip, joint int) bool {
	return hand.Points[tip].Y < hand.Points[joint].Y
}

// Fingers extracts the finger states from a hand. Each finger is compared against
// its PIP joint; the thumb has no PIP and uses its MCP joint instead.
func Fingers(hand *detector.HandLandmarks) FingerState {
	return FingerState{
		Thumb:  isUp(hand, detector.ThumbTip, detector.ThumbMCP),
		Index:  isUp(hand, detector.IndexTip, detector.IndexPIP),
		Middle: isUp(hand, detector.MiddleTip, detector.MiddlePIP),
		Ring:   isUp(hand, detector.RingTip, detector.RingPIP),
		Pinky:  isUp(hand, detector.PinkyTip, detector.PinkyPIP),
	}
}
