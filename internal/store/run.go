package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Run is one start/stop period of gesture control.
type Run struct {
	ID            string
	SurfaceWidth  float64
	SurfaceHeight float64
	StartedAt     time.Time
	StoppedAt     *time.Time
}

// RunRepository provides access to runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new run. StartedAt defaults to now.
func (r *RunRepository) Create(run *Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (id, surface_width, surface_height, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.SurfaceWidth, run.SurfaceHeight, run.StartedAt,
	)
	return err
}

// Stop marks a run as stopped at the given time.
func (r *RunRepository) Stop(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE runs SET stopped_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run := &Run{}
	var stopped sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, surface_width, surface_height, started_at, stopped_at FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.SurfaceWidth, &run.SurfaceHeight, &run.StartedAt, &stopped)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if stopped.Valid {
		run.StoppedAt = &stopped.Time
	}
	return run, nil
}

// List retrieves all runs, newest first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, surface_width, surface_height, started_at, stopped_at
		 FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var stopped sql.NullTime
		if err := rows.Scan(&run.ID, &run.SurfaceWidth, &run.SurfaceHeight, &run.StartedAt, &stopped); err != nil {
			return nil, err
		}
		if stopped.Valid {
			t := stopped.Time
			run.StoppedAt = &t
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
