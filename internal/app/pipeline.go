package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/handcursor/internal/capture"
	"github.com/ayusman/handcursor/internal/detector"
	"github.com/ayusman/handcursor/internal/gesture"
	"github.com/ayusman/handcursor/internal/plugin"
	"github.com/ayusman/handcursor/internal/store"
)

// runPipeline reads one frame per tick at the configured FPS until stop is
// closed. Each frame is detected, handed to the session, annotated and kept as
// the preview.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(a.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.processFrame()
		}
	}
}

func (a *App) processFrame() {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return
	}
	defer frame.Close()

	hands, err := a.detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	a.session.Process(hands)

	if hand := detector.Primary(hands); hand != nil {
		capture.DrawHand(frame, hand)
	}
	jpeg, err := capture.EncodeJPEG(frame)
	if err != nil {
		log.Printf("Error encoding preview: %v", err)
		return
	}
	a.setPreview(jpeg)
}

// detect runs the detector, or returns the previous result when the motion
// gate reports a still scene.
func (a *App) detect(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	if a.gate != nil {
		if changed, _ := a.gate.Changed(frame); !changed && a.cached {
			return a.lastHands, nil
		}
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		a.cached = false
		return nil, err
	}
	a.lastHands, a.cached = hands, true
	return hands, nil
}

// handleAction records a fired action and runs its bound plugin, if any. The
// plugin runs off the frame path.
func (a *App) handleAction(e gesture.Effect) {
	if a.config.Store != nil {
		ev := &store.Event{
			ID:        uuid.New().String(),
			RunID:     a.RunID(),
			Action:    string(e.Action),
			X:         e.At.X,
			Y:         e.At.Y,
			CreatedAt: time.Now(),
		}
		if err := a.config.Store.Events().Create(ev); err != nil {
			log.Printf("Failed to record %s: %v", e.Action, err)
		}
	}

	a.actions.Add(1)
	go func() {
		defer a.actions.Done()
		a.dispatch(e)
	}()
}

func (a *App) dispatch(e gesture.Effect) {
	ran, err := a.dispatcher.Dispatch(context.Background(), string(e.Action), gestureFor(e.Action).String(), e.At.X, e.At.Y)
	if err != nil {
		log.Printf("Action %s failed: %v", e.Action, err)
		return
	}
	if ran {
		log.Printf("Action %s executed", e.Action)
	}
}

func gestureFor(action gesture.Action) gesture.Gesture {
	if action == gesture.ActionRightClick {
		return gesture.RightClick
	}
	return gesture.Click
}

// resolveBinding prefers enabled store bindings over configured ones.
func (a *App) resolveBinding(action string) (*plugin.Binding, error) {
	if a.config.Store != nil {
		b, err := a.config.Store.Bindings().GetByAction(action)
		if err != nil {
			return nil, err
		}
		if b != nil {
			if !b.Enabled {
				return nil, nil
			}
			return &plugin.Binding{Plugin: b.PluginName, Action: b.PluginAction, Config: b.Config}, nil
		}
	}

	if a.config.Bindings != nil {
		return a.config.Bindings(action)
	}
	return nil, nil
}
