package model_test

import (
	"context"
	"database/sql"
	"testing"

	"quickcal/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func TestEventUpsert(t *testing.T) {
	bundb := newTestDB(t)

	eventModel := model.Event{
		ID:           uuid.NewString(),
		Title:        "test",
		StartUnixUTC: 1000,
		EndUnixUTC:   2000,
	}
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if eventModel.CreatedAt == 0 {
		t.Error("insert must stamp CreatedAt")
	}

	// case: second upsert updates in place
	eventModel.Title = "renamed"
	if err := eventModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}
	if eventModel.UpdatedAt == 0 {
		t.Error("update must stamp UpdatedAt")
	}

	count, err := bundb.NewSelect().
		Model((*model.Event)(nil)).
		Count(context.Background())
	if err != nil {
		t.Error(err)
	}
	if count != 1 {
		t.Error("upsert must not duplicate the event", count)
	}

	stored := new(model.Event)
	if err := bundb.NewSelect().
		Model(stored).
		Where("id = ?", eventModel.ID).
		Scan(context.Background()); err != nil {
		t.Error(err)
	}
	if stored.Title != "renamed" {
		t.Error("update not applied", stored.Title)
	}
}

func TestEventUpsertValidation(t *testing.T) {
	bundb := newTestDB(t)

	for _, eventModel := range []model.Event{
		{Title: "no id", StartUnixUTC: 1},
		{ID: uuid.NewString(), StartUnixUTC: 1},
		{ID: uuid.NewString(), Title: "no start"},
	} {
		if err := eventModel.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected validation error for", eventModel)
		}
	}
}

func TestEventLegacyID(t *testing.T) {
	eventModel := model.Event{
		ID:           uuid.NewString(),
		Title:        "Team meeting",
		StartUnixUTC: 1726657200,
	}
	if eventModel.LegacyID() != "1726657200-Team meeting" {
		t.Error("wrong legacy id", eventModel.LegacyID())
	}
}

func TestEventEndOrStart(t *testing.T) {
	withEnd := model.Event{StartUnixUTC: 1000, EndUnixUTC: 2000}
	if withEnd.EndOrStart() != 2000 {
		t.Error("existing end must win")
	}
	withoutEnd := model.Event{StartUnixUTC: 1000}
	if withoutEnd.EndOrStart() != 1000 {
		t.Error("missing end must read as the start")
	}
}
