package store

import (
	"testing"
	"time"
)

func TestEventRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	base := time.Now()
	events := []*Event{
		{ID: "e1", Action: "click", X: 10, Y: 20, CreatedAt: base},
		{ID: "e2", Action: "right-click", X: 30, Y: 40, CreatedAt: base.Add(time.Second)},
		{ID: "e3", Action: "click", X: 50, Y: 60, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range events {
		if err := repo.Create(e); err != nil {
			t.Fatalf("Create(%s) error = %v", e.ID, err)
		}
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("List(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(0) = %d events, want 3", len(all))
	}
	if all[0].ID != "e3" {
		t.Errorf("newest event = %s, want e3", all[0].ID)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) = %d events, want 2", len(limited))
	}
	if limited[1].X != 30 || limited[1].Y != 40 {
		t.Errorf("second event position = (%v, %v), want (30, 40)", limited[1].X, limited[1].Y)
	}
}

func TestEventRepository_RejectsUnknownAction(t *testing.T) {
	s := newTestStore(t)

	if err := s.Events().Create(&Event{ID: "e1", Action: "drag"}); err == nil {
		t.Error("expected check constraint failure for action 'drag'")
	}
}

func TestEventRepository_Count(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	repo.Create(&Event{ID: "e1", Action: "click"})
	repo.Create(&Event{ID: "e2", Action: "click"})
	repo.Create(&Event{ID: "e3", Action: "right-click"})

	tests := []struct {
		action string
		want   int
	}{
		{"", 3},
		{"click", 2},
		{"right-click", 1},
	}
	for _, tt := range tests {
		got, err := repo.Count(tt.action)
		if err != nil {
			t.Fatalf("Count(%q) error = %v", tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.action, got, tt.want)
		}
	}
}

func TestEventRepository_ListByRun(t *testing.T) {
	s := newTestStore(t)
	s.Runs().Create(&Run{ID: "r1", SurfaceWidth: 10, SurfaceHeight: 10})
	s.Runs().Create(&Run{ID: "r2", SurfaceWidth: 10, SurfaceHeight: 10})

	base := time.Now()
	s.Events().Create(&Event{ID: "a", RunID: "r1", Action: "click", CreatedAt: base})
	s.Events().Create(&Event{ID: "b", RunID: "r2", Action: "click", CreatedAt: base})
	s.Events().Create(&Event{ID: "c", RunID: "r1", Action: "right-click", CreatedAt: base.Add(time.Second)})

	events, err := s.Events().ListByRun("r1")
	if err != nil {
		t.Fatalf("ListByRun() error = %v", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "c" {
		t.Errorf("ListByRun(r1) = %+v, want [a c]", events)
	}
	if events[0].RunID != "r1" {
		t.Errorf("RunID = %q, want r1", events[0].RunID)
	}
}

func TestEventRepository_DeleteAll(t *testing.T) {
	s := newTestStore(t)
	s.Events().Create(&Event{ID: "e1", Action: "click"})

	if err := s.Events().DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if n, _ := s.Events().Count(""); n != 0 {
		t.Errorf("Count() = %d after DeleteAll, want 0", n)
	}
}
