package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID    string `bun:"id,pk"`         // required
	Title string `bun:"title,notnull"` // required

	StartUnixUTC int64 `bun:"start_date,notnull"` // required
	EndUnixUTC   int64 `bun:"end_date"`
	AllDay       bool  `bun:"all_day"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	case e.StartUnixUTC == 0:
		return fmt.Errorf("(*Event).Upsert: start date is blank")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// The pre-surrogate-key addressing scheme, kept for display and for the
// legacy delete surface. Two events sharing start and title share this ID.
func (e *Event) LegacyID() string {
	return fmt.Sprintf("%d-%s", e.StartUnixUTC, e.Title)
}

// End instant for interval comparisons; a missing end reads as the start.
func (e *Event) EndOrStart() int64 {
	if e.EndUnixUTC == 0 {
		return e.StartUnixUTC
	}
	return e.EndUnixUTC
}
