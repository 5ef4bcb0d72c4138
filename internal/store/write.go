package store

import (
	"context"
	"fmt"

	"github.com/roach88/zonedbm/internal/engine"
)

// ZoneRecord is what the log keeps about one evaluated zone.
type ZoneRecord struct {
	Name        string `json:"name"`
	Consistent  bool   `json:"consistent"`
	Fingerprint string `json:"fingerprint"`
}

// RunRecord is a finished run ready to be logged.
type RunRecord struct {
	ID     string
	Source string // script location, e.g. the specs directory
	Events []engine.Event
	Zones  []ZoneRecord // in evaluation order
}

// WriteRun appends a run, its trace and its zones in one transaction.
// Uses ON CONFLICT DO NOTHING for idempotency - writing the same run twice
// is a no-op. inserted reports whether the run was new.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) (inserted bool, err error) {
	if run.ID == "" {
		return false, fmt.Errorf("write run: run ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Source)
	if err != nil {
		return false, fmt.Errorf("write run: insert run: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	for _, ev := range run.Events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (run_id, seq, zone, step, consistent)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, ev.Seq, ev.Zone, ev.Step, ev.Consistent)
		if err != nil {
			return false, fmt.Errorf("write run: event %d: %w", ev.Seq, err)
		}
	}

	for i, z := range run.Zones {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO zones (run_id, position, name, consistent, fingerprint)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, i, z.Name, z.Consistent, z.Fingerprint)
		if err != nil {
			return false, fmt.Errorf("write run: zone %s: %w", z.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}
