// Package store persists dataset pipeline runs in SQLite: one row per run,
// per-class counts at each stage, and the labeled samples in output order.
//
// The schema is managed by golang-migrate from the embedded migrations/
// directory and is brought up to date by Open.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// Class count stages.
const (
	StageInput    = "input"
	StageBalanced = "balanced"
)

// Store wraps the dataset database.
type Store struct {
	db *sql.DB
}

// Run is one persisted pipeline execution.
type Run struct {
	RunID        string
	CreatedAt    int64 // unix nanos
	Variant      dataset.Variant
	Policy       string
	Seed         int64
	InputPath    string
	OutputPath   string
	RowsIn       int
	RowsOut      int
	EmptyClasses []dataset.Action
}

// Open opens (creating if needed) the SQLite database at path and migrates
// it to the latest schema.
func Open(path string) (*Store, error) {
	// foreign_keys and busy_timeout are per connection, so they go in the
	// DSN where every pooled connection picks them up.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRun persists a run. If RunID is empty, a UUID is generated; if
// CreatedAt is zero, the current time is used.
func (s *Store) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO dataset_runs (
			run_id, created_at, variant, policy, seed,
			input_path, output_path, rows_in, rows_out, empty_classes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAt, string(run.Variant), run.Policy, run.Seed,
		run.InputPath, run.OutputPath, run.RowsIn, run.RowsOut, encodeActions(run.EmptyClasses),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun loads one run by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, created_at, variant, policy, seed,
		       input_path, output_path, rows_in, rows_out, empty_classes
		FROM dataset_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, created_at, variant, policy, seed,
		       input_path, output_path, rows_in, rows_out, empty_classes
		FROM dataset_runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run      Run
		variant  string
		emptyCSV string
	)
	if err := sc.Scan(&run.RunID, &run.CreatedAt, &variant, &run.Policy, &run.Seed,
		&run.InputPath, &run.OutputPath, &run.RowsIn, &run.RowsOut, &emptyCSV); err != nil {
		return nil, err
	}
	run.Variant = dataset.Variant(variant)
	run.EmptyClasses = decodeActions(emptyCSV)
	return &run, nil
}

// InsertClassCounts records the per-class counts of a run at a stage.
func (s *Store) InsertClassCounts(runID, stage string, counts dataset.ClassCounts) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO dataset_class_counts (run_id, stage, action, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range dataset.Actions {
		if _, err := stmt.Exec(runID, stage, int(a), counts[a]); err != nil {
			return fmt.Errorf("insert %s count for %s: %w", stage, a, err)
		}
	}
	return tx.Commit()
}

// ClassCounts loads the per-class counts of a run at a stage. Missing
// classes read as zero.
func (s *Store) ClassCounts(runID, stage string) (dataset.ClassCounts, error) {
	var counts dataset.ClassCounts
	rows, err := s.db.Query(`SELECT action, count FROM dataset_class_counts WHERE run_id = ? AND stage = ?`, runID, stage)
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var action, n int
		if err := rows.Scan(&action, &n); err != nil {
			return counts, err
		}
		if a := dataset.Action(action); a.Valid() {
			counts[a] = n
		}
	}
	return counts, rows.Err()
}

// InsertSamples stores the labeled samples of a run in a single
// transaction, preserving slice order as position.
func (s *Store) InsertSamples(runID string, samples []dataset.LabeledSample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO dataset_samples (
			run_id, position, front, far_front, left_cm, right_cm,
			diff, min_lr, collision, action
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, smp := range samples {
		if _, err := stmt.Exec(runID, i, smp.Front, smp.FarFront, smp.Left, smp.Right,
			smp.Diff, smp.MinLR, smp.Collision, int(smp.Action)); err != nil {
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Samples loads the labeled samples of a run in their stored order.
func (s *Store) Samples(runID string) ([]dataset.LabeledSample, error) {
	rows, err := s.db.Query(`
		SELECT front, far_front, left_cm, right_cm, diff, min_lr, collision, action
		FROM dataset_samples WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.LabeledSample
	for rows.Next() {
		var (
			smp    dataset.LabeledSample
			action int
		)
		if err := rows.Scan(&smp.Front, &smp.FarFront, &smp.Left, &smp.Right,
			&smp.Diff, &smp.MinLR, &smp.Collision, &action); err != nil {
			return nil, err
		}
		smp.Action = dataset.Action(action)
		out = append(out, smp)
	}
	return out, rows.Err()
}

func encodeActions(actions []dataset.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

func decodeActions(s string) []dataset.Action {
	if s == "" {
		return nil
	}
	var out []dataset.Action
	for _, name := range strings.Split(s, ",") {
		for _, a := range dataset.Actions {
			if a.String() == name {
				out = append(out, a)
			}
		}
	}
	return out
}
