package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
	calls int
	mu    sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerChain holds the MCP, PIP, DIP and tip positions of one finger.
type fingerChain [4]Point3D

// Extended and curled joint positions for a right hand, palm facing the camera.
// Extended tips sit above their PIP joint (smaller Y); curled tips fold back below it.
var (
	thumbExtended = fingerChain{{0.55, 0.75, 0.02}, {0.62, 0.70, 0.03}, {0.68, 0.65, 0.03}, {0.73, 0.60, 0.03}}
	thumbTucked   = fingerChain{{0.55, 0.75, 0.0}, {0.58, 0.68, -0.02}, {0.56, 0.70, -0.04}, {0.53, 0.72, -0.05}}

	indexExtended  = fingerChain{{0.55, 0.68, 0.0}, {0.57, 0.55, 0.0}, {0.58, 0.45, 0.0}, {0.58, 0.35, 0.0}}
	indexCurled    = fingerChain{{0.55, 0.70, -0.02}, {0.55, 0.68, -0.05}, {0.52, 0.70, -0.04}, {0.50, 0.72, -0.02}}
	middleExtended = fingerChain{{0.50, 0.66, 0.0}, {0.50, 0.52, 0.0}, {0.50, 0.40, 0.0}, {0.50, 0.28, 0.0}}
	middleCurled   = fingerChain{{0.50, 0.68, -0.02}, {0.50, 0.66, -0.05}, {0.47, 0.68, -0.04}, {0.45, 0.70, -0.02}}
	ringExtended   = fingerChain{{0.45, 0.68, 0.0}, {0.43, 0.55, 0.0}, {0.42, 0.45, 0.0}, {0.42, 0.35, 0.0}}
	ringCurled     = fingerChain{{0.45, 0.70, -0.02}, {0.45, 0.68, -0.05}, {0.42, 0.70, -0.04}, {0.40, 0.72, -0.02}}
	pinkyExtended  = fingerChain{{0.40, 0.70, 0.0}, {0.37, 0.60, 0.0}, {0.35, 0.50, 0.0}, {0.34, 0.42, 0.0}}
	pinkyCurled    = fingerChain{{0.40, 0.72, -0.02}, {0.40, 0.70, -0.05}, {0.37, 0.72, -0.04}, {0.35, 0.74, -0.02}}
)

func pick(up bool, extended, curled fingerChain) fingerChain {
	if up {
		return extended
	}
	return curled
}

// PoseLandmarks builds a right hand whose fingers are extended or curled as requested.
// The thumb chain starts at ThumbCMC; the other chains start at their MCP joint.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	chains := []struct {
		base  int
		chain fingerChain
	}{
		{ThumbCMC, pick(thumb, thumbExtended, thumbTucked)},
		{IndexMCP, pick(index, indexExtended, indexCurled)},
		{MiddleMCP, pick(middle, middleExtended, middleCurled)},
		{RingMCP, pick(ring, ringExtended, ringCurled)},
		{PinkyMCP, pick(pinky, pinkyExtended, pinkyCurled)},
	}
	for _, c := range chains {
		copy(lm.Points[c.base:c.base+4], c.chain[:])
	}

	return lm
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, false, false, false)
}

// FistLandmarks returns a closed hand with the thumb tucked.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(false, false, false, false, false)
}

// VictoryLandmarks returns a hand with index and middle fingers extended.
func VictoryLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, true, false, false)
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(true, true, true, true, true)
}

// ThumbsUpLandmarks returns a closed hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return PoseLandmarks(true, false, false, false, false)
}

// Shift returns a copy of the hand translated by (dx, dy) in normalized units.
func Shift(h HandLandmarks, dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
