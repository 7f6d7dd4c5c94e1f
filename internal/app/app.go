// Package app runs the capture pipeline: camera frames in, hand landmarks
// through the cursor session, fired actions out to the store and plugins.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handcursor/internal/capture"
	"github.com/ayusman/handcursor/internal/detector"
	"github.com/ayusman/handcursor/internal/gesture"
	"github.com/ayusman/handcursor/internal/plugin"
	"github.com/ayusman/handcursor/internal/render"
	"github.com/ayusman/handcursor/internal/session"
	"github.com/ayusman/handcursor/internal/store"
)

// User-facing status messages.
const (
	MsgCameraError = "Error initializing webcam. Please make sure you have a webcam connected and have granted camera permissions."
	MsgActive      = "Status: ACTIVE - Show your hand to the camera"
	MsgInactive    = "Status: INACTIVE"
)

// NoCamera disables capture; landmarks then arrive only through Session().Process.
const NoCamera = -1

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store
	// Camera overrides the device selected by CameraID.
	Camera   capture.Camera
	CameraID int
	FPS      int
	// Detector overrides the MediaPipe detector built from DetectorConfig.
	Detector       detector.Detector
	DetectorConfig detector.Config
	// MotionThreshold enables reuse of the last detection while less than
	// this percentage of pixels changes. Zero detects every frame.
	MotionThreshold float64
	Surface         gesture.Size
	Sink            render.Sink
	PluginDir       string
	PluginTimeout   time.Duration
	// Bindings resolves actions not bound in the store. Optional.
	Bindings plugin.Resolver
}

// App owns one session and the pipeline feeding it.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	session    *session.Session
	pluginMgr  *plugin.Manager
	dispatcher *plugin.Dispatcher
	gate       *capture.MotionGate

	// Pipeline goroutine only.
	lastHands []detector.HandLandmarks
	cached    bool

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}

	// runMu guards runID; actions read it while Stop holds mu.
	runID string
	runMu sync.RWMutex

	preview   []byte
	previewMu sync.RWMutex

	actions sync.WaitGroup
}

// New creates an App. The pipeline is idle until Start.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}

	a := &App{
		config:    config,
		camera:    config.Camera,
		detector:  config.Detector,
		pluginMgr: plugin.NewManager(config.PluginDir),
	}

	if a.camera == nil && config.CameraID != NoCamera {
		a.camera = capture.NewCamera(config.CameraID)
	}

	if a.detector == nil && a.camera != nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(config.DetectorConfig); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if a.camera != nil && config.MotionThreshold > 0 {
		a.gate = capture.NewMotionGate(config.MotionThreshold)
	}

	a.dispatcher = plugin.NewDispatcher(a.pluginMgr, plugin.NewExecutor(config.PluginTimeout), a.resolveBinding)
	a.session = session.New(session.Config{
		Surface:  config.Surface,
		Sink:     config.Sink,
		OnAction: a.handleAction,
	})

	return a
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera and activates the session. When the camera cannot be
// opened the user is notified once and ErrCameraUnavailable is returned with
// the session left inactive.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session.IsActive() {
		return nil
	}

	if a.camera != nil {
		if err := a.camera.Open(); err != nil {
			log.Printf("Error opening camera: %v", err)
			a.session.Notify(MsgCameraError)
			if !errors.Is(err, capture.ErrCameraUnavailable) {
				err = fmt.Errorf("%w: %v", capture.ErrCameraUnavailable, err)
			}
			return err
		}
		a.camera.SetFPS(a.config.FPS)
	}

	a.beginRun()
	a.session.Start()
	a.session.Notify(MsgActive)

	if a.camera != nil {
		if a.gate != nil {
			a.gate.Reset()
		}
		a.lastHands, a.cached = nil, false
		a.stopCh = make(chan struct{})
		a.doneCh = make(chan struct{})
		go a.runPipeline(a.stopCh, a.doneCh)
		log.Println("Capture pipeline started")
	}
	return nil
}

// Stop deactivates the session and releases the camera. Frames already read
// are discarded.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.session.IsActive() && a.stopCh == nil {
		return
	}

	a.session.Stop()

	if a.stopCh != nil {
		close(a.stopCh)
		<-a.doneCh
		a.stopCh, a.doneCh = nil, nil

		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
		log.Println("Capture pipeline stopped")
	}

	a.endRun()
	a.session.Notify(MsgInactive)
}

// Toggle starts a stopped app or stops a running one and reports whether it is
// now running.
func (a *App) Toggle() (bool, error) {
	if a.IsRunning() {
		a.Stop()
		return false, nil
	}
	if err := a.Start(); err != nil {
		return false, err
	}
	return true, nil
}

// IsRunning reports whether the session is active.
func (a *App) IsRunning() bool {
	return a.session.IsActive()
}

// Close stops the app, waits for in-flight plugin runs and shuts the detector down.
func (a *App) Close() error {
	a.Stop()
	a.actions.Wait()
	a.session.Effects().Clear()
	if a.gate != nil {
		a.gate.Close()
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			return fmt.Errorf("failed to close detector: %w", err)
		}
	}
	return nil
}

// Session returns the cursor session.
func (a *App) Session() *session.Session {
	return a.session
}

// Camera returns the camera, or nil when capture is disabled.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// RunID returns the store ID of the current run, or "" when stopped.
func (a *App) RunID() string {
	a.runMu.RLock()
	defer a.runMu.RUnlock()
	return a.runID
}

// Preview returns the latest annotated JPEG frame, or nil before the first one.
func (a *App) Preview() []byte {
	a.previewMu.RLock()
	defer a.previewMu.RUnlock()
	return a.preview
}

func (a *App) setPreview(jpeg []byte) {
	a.previewMu.Lock()
	a.preview = jpeg
	a.previewMu.Unlock()
}

// beginRun records a new run. Called with a.mu held.
func (a *App) beginRun() {
	if a.config.Store == nil {
		return
	}

	surface := a.session.Surface()
	run := &store.Run{
		ID:            uuid.New().String(),
		SurfaceWidth:  surface.Width,
		SurfaceHeight: surface.Height,
	}
	if err := a.config.Store.Runs().Create(run); err != nil {
		log.Printf("Failed to record run: %v", err)
		return
	}

	a.runMu.Lock()
	a.runID = run.ID
	a.runMu.Unlock()
}

// endRun closes the current run. Called with a.mu held.
func (a *App) endRun() {
	a.runMu.Lock()
	id := a.runID
	a.runID = ""
	a.runMu.Unlock()

	if a.config.Store == nil || id == "" {
		return
	}
	if err := a.config.Store.Runs().Stop(id, time.Now()); err != nil {
		log.Printf("Failed to close run %s: %v", id, err)
	}
}
