package capture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/handcursor/internal/detector"
)

// Overlay colors for the camera preview.
var (
	ConnectorColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	LandmarkColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Overlay stroke sizes in pixels.
const (
	ConnectorThickness = 2
	LandmarkRadius     = 3
)

// landmarkPoint converts a normalized landmark to a pixel position on the frame.
func landmarkPoint(hand *detector.HandLandmarks, i, cols, rows int) image.Point {
	x, y := hand.Pixel(i, float64(cols), float64(rows))
	return image.Pt(int(x), int(y))
}

// DrawHand draws the hand skeleton onto frame: connectors in green, landmarks
// in red. Empty frames and nil hands are left untouched.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if frame == nil || frame.Empty() || hand == nil {
		return
	}

	cols, rows := frame.Cols(), frame.Rows()

	for _, c := range detector.Connections {
		a := landmarkPoint(hand, c[0], cols, rows)
		b := landmarkPoint(hand, c[1], cols, rows)
		gocv.Line(frame, a, b, ConnectorColor, ConnectorThickness)
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		gocv.Circle(frame, landmarkPoint(hand, i, cols, rows), LandmarkRadius, LandmarkColor, -1)
	}
}

// EncodeJPEG encodes a frame as JPEG bytes.
func EncodeJPEG(frame *gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return buf.GetBytes(), nil
}
