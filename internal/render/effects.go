package render

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handcursor/internal/gesture"
)

// EffectTTL is how long a click marker stays on screen.
const EffectTTL = 600 * time.Millisecond

// EffectBoard holds the markers currently on screen. Each marker removes itself
// after the board's TTL.
type EffectBoard struct {
	ttl     time.Duration
	markers map[string]Marker
	timers  map[string]*time.Timer
	onClear func(id string)
	mu      sync.Mutex
}

// NewEffectBoard creates a board whose markers expire after ttl. A non-positive
// ttl uses EffectTTL.
func NewEffectBoard(ttl time.Duration) *EffectBoard {
	if ttl <= 0 {
		ttl = EffectTTL
	}
	return &EffectBoard{
		ttl:     ttl,
		markers: make(map[string]Marker),
		timers:  make(map[string]*time.Timer),
	}
}

// OnClear registers a callback invoked with the marker ID when a marker expires.
func (b *EffectBoard) OnClear(fn func(id string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClear = fn
}

// Add places a marker for an action and schedules its removal.
func (b *EffectBoard) Add(e gesture.Effect) Marker {
	m := Marker{
		ID:        uuid.New().String(),
		Action:    e.Action,
		Position:  e.At,
		Color:     ActionColor(e.Action),
		CreatedAt: time.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.markers[m.ID] = m
	b.timers[m.ID] = time.AfterFunc(b.ttl, func() { b.expire(m.ID) })
	return m
}

func (b *EffectBoard) expire(id string) {
	b.mu.Lock()
	if _, ok := b.markers[id]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.markers, id)
	delete(b.timers, id)
	callback := b.onClear
	b.mu.Unlock()

	if callback != nil {
		callback(id)
	}
}

// Active returns the markers still on screen, oldest first.
func (b *EffectBoard) Active() []Marker {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Marker, 0, len(b.markers))
	for _, m := range b.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Clear removes every marker without invoking the clear callback.
func (b *EffectBoard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.markers = make(map[string]Marker)
}
