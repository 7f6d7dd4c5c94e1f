// Package tray provides the desktop system tray controls for handcursor.
package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handcursor/internal/render"
)

// Tray is the system tray menu. It doubles as a render.Sink so the menu can
// show the live gesture.
type Tray struct {
	onToggle func() (bool, error)
	onReset  func()
	onOpenUI func()
	onQuit   func()
	active   bool
	last     string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

var _ render.Sink = (*Tray)(nil)

// New creates a new Tray showing an inactive session.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback run by Start/Stop. It returns the new active state.
func (t *Tray) OnToggle(fn func() (bool, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback run by Reset Cursor.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnOpenUI sets the callback run by Open Controller.
func (t *Tray) OnOpenUI(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenUI = fn
}

// OnQuit sets the callback run by Quit.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("HandCursor")
	systray.SetTooltip("HandCursor hand-gesture cursor")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.active), "Start or stop gesture control")
	systray.AddSeparator()
	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Current gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()

	menuReset := systray.AddMenuItem("Reset Cursor", "Move the cursor to the center")
	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open Controller...", "Open the controller in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit HandCursor")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.call(func() func() { return t.onReset })
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpenUI })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// call runs the callback picked under the read lock, outside the lock.
func (t *Tray) call(pick func() func()) {
	t.mu.RLock()
	fn := pick()
	t.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

func (t *Tray) handleToggle() {
	t.mu.RLock()
	fn := t.onToggle
	t.mu.RUnlock()

	if fn == nil {
		return
	}
	active, err := fn()
	if err != nil {
		log.Printf("Toggle failed: %v", err)
	}
	t.SetActive(active)
}

func toggleTitle(active bool) string {
	if active {
		return "Stop Gesture Control"
	}
	return "Start Gesture Control"
}

func lastTitle(label string) string {
	if label == "" {
		return "Gesture: none"
	}
	return "Gesture: " + label
}

// SetActive updates the toggle item.
func (t *Tray) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = active
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(active))
	}
}

// IsActive returns the state last shown by the toggle item.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// LastGesture returns the label shown in the menu.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// Render implements render.Sink. Only label changes touch the menu.
func (t *Tray) Render(f render.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if f.Label == t.last {
		return
	}
	t.last = f.Label
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(f.Label))
	}
}

// Effect implements render.Sink.
func (t *Tray) Effect(render.Marker) {}

// Notify implements render.Sink by showing message as the tooltip.
func (t *Tray) Notify(message string) {
	t.mu.RLock()
	ready := t.menuToggle != nil
	t.mu.RUnlock()

	if ready {
		systray.SetTooltip(message)
	}
}
