package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/build-warden/internal/core"
)

// Store defines the interface for all database operations.
type Store interface {
	core.DispatchStore
	// ImportRecords writes migrated records without lowering any version
	// already present.
	ImportRecords(ctx context.Context, records []core.DispatchRecord) (int, error)
}

type sqlStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore creates a Store on top of an open connection. Queries are written
// with ? placeholders and rebound for the connection's driver.
func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db, now: time.Now}
}

type dispatchRow struct {
	Poller      string `db:"poller"`
	ReviewID    int64  `db:"review_id"`
	LastUpdated int64  `db:"last_updated"`
	Origin      string `db:"origin"`
	UpdatedAt   int64  `db:"updated_at"`
}

func (r dispatchRow) record() core.DispatchRecord {
	return core.DispatchRecord{
		Poller:      r.Poller,
		ReviewID:    r.ReviewID,
		LastUpdated: fromMicros(r.LastUpdated),
		Origin:      r.Origin,
		UpdatedAt:   fromMicros(r.UpdatedAt),
	}
}

func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

// AlreadyDispatched reports whether the review was dispatched at version or later.
// Both sides are compared in whole microseconds.
func (s *sqlStore) AlreadyDispatched(ctx context.Context, poller string, reviewID int64, version time.Time) (bool, error) {
	query := s.db.Rebind(`SELECT last_updated FROM dispatches WHERE poller = ? AND review_id = ?`)

	var stored []int64
	if err := s.db.SelectContext(ctx, &stored, query, poller, reviewID); err != nil {
		return false, fmt.Errorf("failed to look up dispatch of review %d: %w", reviewID, err)
	}
	if len(stored) == 0 {
		return false, nil
	}
	return stored[0] >= toMicros(version), nil
}

// RecordDispatch upserts the dispatch record of the review.
func (s *sqlStore) RecordDispatch(ctx context.Context, poller string, reviewID int64, version time.Time) error {
	query := s.db.Rebind(`
		INSERT INTO dispatches (poller, review_id, last_updated, origin, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (poller, review_id)
		DO UPDATE SET last_updated = excluded.last_updated, origin = excluded.origin, updated_at = excluded.updated_at`)

	_, err := s.db.ExecContext(ctx, query, poller, reviewID, toMicros(version), core.OriginCycle, toMicros(s.now()))
	if err != nil {
		return fmt.Errorf("failed to record dispatch of review %d: %w", reviewID, err)
	}
	return nil
}

// ListDispatches returns the records of a poller ordered by review id.
func (s *sqlStore) ListDispatches(ctx context.Context, poller string) ([]core.DispatchRecord, error) {
	query := s.db.Rebind(`
		SELECT poller, review_id, last_updated, origin, updated_at
		FROM dispatches
		WHERE poller = ?
		ORDER BY review_id`)

	var rows []dispatchRow
	if err := s.db.SelectContext(ctx, &rows, query, poller); err != nil {
		return nil, fmt.Errorf("failed to list dispatches for %s: %w", poller, err)
	}
	records := make([]core.DispatchRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}

// Prune deletes records of the poller not written since before.
func (s *sqlStore) Prune(ctx context.Context, poller string, before time.Time) (int64, error) {
	query := s.db.Rebind(`DELETE FROM dispatches WHERE poller = ? AND updated_at < ?`)
	res, err := s.db.ExecContext(ctx, query, poller, toMicros(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune dispatches for %s: %w", poller, err)
	}
	return res.RowsAffected()
}

// ImportRecords upserts records inside one transaction. An existing record
// keeps its version when it is newer than the imported one.
func (s *sqlStore) ImportRecords(ctx context.Context, records []core.DispatchRecord) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`
		INSERT INTO dispatches (poller, review_id, last_updated, origin, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (poller, review_id)
		DO UPDATE SET last_updated = excluded.last_updated, origin = excluded.origin, updated_at = excluded.updated_at
		WHERE dispatches.last_updated < excluded.last_updated`)

	now := toMicros(s.now())
	imported := 0
	for _, r := range records {
		origin := r.Origin
		if origin == "" {
			origin = core.OriginLegacy
		}
		res, err := tx.ExecContext(ctx, query, r.Poller, r.ReviewID, toMicros(r.LastUpdated), origin, now)
		if err != nil {
			return 0, fmt.Errorf("failed to import review %d: %w", r.ReviewID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			imported += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return imported, nil
}
