// Package store is the only mutation surface over the persisted event
// collection. A Store is constructed once at process start, after the
// schema exists; handlers never touch the database directly.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quickcal/src-server/model"
	"quickcal/src-server/utils"

	"github.com/uptrace/bun"
)

type Store struct {
	db     bun.IDB
	root   *bun.DB
	metric *utils.Metric
}

func New(db *bun.DB, metric *utils.Metric) *Store {
	return &Store{db: db, root: db, metric: metric}
}

// WithTx runs fn against a transaction-scoped view of the store. Nested
// transactions are not supported.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.root == nil {
		return fmt.Errorf("(*Store).WithTx: already inside a transaction")
	}
	return s.root.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(&Store{db: tx, metric: s.metric})
	})
}

// ReadAll returns every event in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]model.Event, error) {
	startTimer := time.Now()
	events := make([]model.Event, 0)
	if err := s.db.NewSelect().
		Model(&events).
		OrderExpr("rowid ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Store).ReadAll: %w", err)
	}
	s.metric.ReportDatabaseRead(float64(time.Since(startTimer).Microseconds()))
	return events, nil
}

// Append persists one event durably before returning.
func (s *Store) Append(ctx context.Context, event *model.Event) error {
	startTimer := time.Now()
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().UTC().Unix()
	}
	if _, err := s.db.NewInsert().
		Model(event).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Store).Append: %w", err)
	}
	s.metric.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))
	return nil
}

// DeleteByID removes the event with the given generated ID. Returns the
// number of removed rows.
func (s *Store) DeleteByID(ctx context.Context, id string) (int64, error) {
	startTimer := time.Now()
	res, err := s.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("(*Store).DeleteByID: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("(*Store).DeleteByID: %w", err)
	}
	s.metric.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))
	return affected, nil
}

// DeleteByIdentity removes ALL events matching the legacy
// (start, title) composite identity.
func (s *Store) DeleteByIdentity(ctx context.Context, startUnixUTC int64, title string) (int64, error) {
	startTimer := time.Now()
	res, err := s.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("start_date = ?", startUnixUTC).
		Where("title = ?", title).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("(*Store).DeleteByIdentity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("(*Store).DeleteByIdentity: %w", err)
	}
	s.metric.ReportDatabaseWrite(float64(time.Since(startTimer).Microseconds()))
	return affected, nil
}

// Replace is update modeled as explicit delete-then-recreate in one
// transaction. The replacement keeps the addressed event's ID.
func (s *Store) Replace(ctx context.Context, id string, event *model.Event) error {
	return s.WithTx(ctx, func(tx *Store) error {
		affected, err := tx.DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		event.ID = id
		return tx.Append(ctx, event)
	})
}

var ErrNotFound = fmt.Errorf("event not found")
