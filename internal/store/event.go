package store

import (
	"database/sql"
	"time"
)

// Event is a pointer action fired during a run.
type Event struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id,omitempty"`
	Action    string    `json:"action"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to recorded events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts an event. CreatedAt defaults to now. An empty RunID is stored
// as NULL.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	var runID sql.NullString
	if e.RunID != "" {
		runID = sql.NullString{String: e.RunID, Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, run_id, action, x, y, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, runID, e.Action, e.X, e.Y, e.CreatedAt,
	)
	return err
}

// List returns the most recent events, newest first. A non-positive limit
// returns every event.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	query := `SELECT id, run_id, action, x, y, created_at FROM events ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(query, args...)
}

// ListByRun returns the events of one run in the order they fired.
func (r *EventRepository) ListByRun(runID string) ([]*Event, error) {
	return r.query(
		`SELECT id, run_id, action, x, y, created_at FROM events
		 WHERE run_id = ? ORDER BY created_at, rowid`,
		runID,
	)
}

func (r *EventRepository) query(query string, args ...any) ([]*Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var runID sql.NullString
		if err := rows.Scan(&e.ID, &runID, &e.Action, &e.X, &e.Y, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.RunID = runID.String
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the number of events for an action, or of all events when
// action is empty.
func (r *EventRepository) Count(action string) (int, error) {
	var n int
	var err error
	if action == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE action = ?`, action).Scan(&n)
	}
	return n, err
}

// DeleteAll removes every recorded event.
func (r *EventRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM events`)
	return err
}
