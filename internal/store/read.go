package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/zonedbm/internal/engine"
)

// ErrRunNotFound is returned when the log has no run with the given ID.
var ErrRunNotFound = errors.New("run not found")

// Run summarizes a logged run.
type Run struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Events int    `json:"events"`
	Zones  int    `json:"zones"`
}

const runSummaryQuery = `
	SELECT r.id, r.source,
		(SELECT COUNT(*) FROM events e WHERE e.run_id = r.id),
		(SELECT COUNT(*) FROM zones z WHERE z.run_id = r.id)
	FROM runs r
`

// ReadRuns returns every logged run ordered by ID.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, runSummaryQuery+`ORDER BY r.id COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Events, &r.Zones); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the summary of one run.
// Returns ErrRunNotFound if the run was never logged.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, runSummaryQuery+`WHERE r.id = ?`, id).
		Scan(&r.ID, &r.Source, &r.Events, &r.Zones)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return r, nil
}

// ReadTrace returns the events of a run ordered by seq. When zone is not
// empty only that zone's events are returned.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadTrace(ctx context.Context, runID, zone string) ([]engine.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, zone, step, consistent
		FROM events
		WHERE run_id = ? AND (? = '' OR zone = ?)
		ORDER BY seq ASC
	`, runID, zone, zone)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []engine.Event{}
	for rows.Next() {
		var ev engine.Event
		if err := rows.Scan(&ev.Seq, &ev.Zone, &ev.Step, &ev.Consistent); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadZones returns the zones of a run in evaluation order.
//
// Returns an empty slice (not nil) if the run logged no zones.
func (s *Store) ReadZones(ctx context.Context, runID string) ([]ZoneRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, consistent, fingerprint
		FROM zones
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	zones := []ZoneRecord{}
	for rows.Next() {
		var z ZoneRecord
		if err := rows.Scan(&z.Name, &z.Consistent, &z.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zones: %w", err)
	}
	return zones, nil
}

// FindFingerprint returns the runs that produced a zone with the given
// fingerprint, ordered by run ID then evaluation position.
func (s *Store) FindFingerprint(ctx context.Context, fingerprint string) ([]ZoneHit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, name
		FROM zones
		WHERE fingerprint = ?
		ORDER BY run_id COLLATE BINARY ASC, position ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query fingerprint: %w", err)
	}
	defer rows.Close()

	hits := []ZoneHit{}
	for rows.Next() {
		var h ZoneHit
		if err := rows.Scan(&h.RunID, &h.Zone); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprint: %w", err)
	}
	return hits, nil
}

// ZoneHit names a zone in a logged run.
type ZoneHit struct {
	RunID string `json:"run_id"`
	Zone  string `json:"zone"`
}
