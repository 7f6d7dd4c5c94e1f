package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Frame differencing parameters.
const (
	// BlurSize is the Gaussian kernel applied before differencing.
	BlurSize = 21
	// PixelDelta is the grey-level change that marks a pixel as changed.
	PixelDelta = 25
	// DefaultMotionThreshold is the percentage of changed pixels that counts
	// as a new scene.
	DefaultMotionThreshold = 0.2
)

// MotionGate compares each frame with the previous one and reports whether
// the scene changed enough to be worth running hand detection again.
type MotionGate struct {
	threshold float64
	prev      gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewMotionGate creates a gate that opens when more than threshold percent of
// pixels change between frames. Non-positive thresholds use
// DefaultMotionThreshold.
func NewMotionGate(threshold float64) *MotionGate {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionGate{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Threshold returns the changed-pixel percentage the gate opens at.
func (g *MotionGate) Threshold() float64 {
	return g.threshold
}

// Changed reports whether frame differs from the previous frame and by how
// many percent of its pixels. The first frame after creation or Reset always
// counts as changed. Empty frames never do.
func (g *MotionGate) Changed(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: BlurSize, Y: BlurSize}, 0, 0, gocv.BorderDefault)

	if !g.primed || blurred.Rows() != g.prev.Rows() || blurred.Cols() != g.prev.Cols() {
		g.swap(blurred)
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, PixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	g.swap(blurred)

	return changed > g.threshold, changed
}

// swap makes next the reference frame. Called with g.mu held.
func (g *MotionGate) swap(next gocv.Mat) {
	g.prev.Close()
	g.prev = next
	g.primed = true
}

// Reset forgets the reference frame so the next frame counts as changed.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prev.Close()
	g.prev = gocv.NewMat()
	g.primed = false
}

// Close releases the reference frame.
func (g *MotionGate) Close() {
	g.Reset()
}
