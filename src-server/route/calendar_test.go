package route_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"quickcal/src-server/model"
	"quickcal/src-server/route"
	"quickcal/src-server/store"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return store.New(bundb, nil)
}

func newCalendarMux(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()
	eventStore := newTestStore(t)
	muxer := http.NewServeMux()
	route.Calendar(muxer, nil, eventStore)
	return muxer, eventStore
}

type eventRespBody struct {
	ID           string `json:"id"`
	LegacyID     string `json:"legacyId"`
	Title        string `json:"title"`
	StartUnixUTC int64  `json:"startUnixUTC"`
	EndUnixUTC   int64  `json:"endUnixUTC"`
	AllDay       bool   `json:"allDay"`
}

func TestCreateEventNormalizesTitle(t *testing.T) {
	muxer, eventStore := newCalendarMux(t)

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(
		http.MethodPost,
		"/api/events",
		strings.NewReader(`{"title":"  team   sync meeting.  ","startUnixUTC":1726657200}`)))
	if w.Code != http.StatusCreated {
		t.Fatal("expected 201, got", w.Code, w.Body.String())
	}

	var respBody eventRespBody
	if err := json.NewDecoder(w.Body).Decode(&respBody); err != nil {
		t.Fatal(err)
	}
	if respBody.Title != "Team Sync Meeting" {
		t.Error("title not normalized, got", respBody.Title)
	}

	events, err := eventStore.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Title != "Team Sync Meeting" {
		t.Error("stored title not normalized", events)
	}
}

func TestCreateEventBoundsTitleLength(t *testing.T) {
	muxer, _ := newCalendarMux(t)

	longTitle := strings.TrimSpace(strings.Repeat("word ", 16))
	body, _ := json.Marshal(map[string]any{
		"title":        longTitle,
		"startUnixUTC": 1726657200,
	})

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(
		http.MethodPost, "/api/events", strings.NewReader(string(body))))
	if w.Code != http.StatusCreated {
		t.Fatal("expected 201, got", w.Code, w.Body.String())
	}

	var respBody eventRespBody
	if err := json.NewDecoder(w.Body).Decode(&respBody); err != nil {
		t.Fatal(err)
	}
	if utf8.RuneCountInString(respBody.Title) != 50 {
		t.Error("expected 50-rune title, got", utf8.RuneCountInString(respBody.Title), respBody.Title)
	}
	if !strings.HasSuffix(respBody.Title, "...") {
		t.Error("truncated title must end with ellipsis, got", respBody.Title)
	}
}

func TestDeleteEventByGeneratedID(t *testing.T) {
	muxer, eventStore := newCalendarMux(t)

	eventModel := model.Event{
		ID:           uuid.NewString(),
		Title:        "Doomed",
		StartUnixUTC: 1000,
	}
	if err := eventStore.Append(context.Background(), &eventModel); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(
		http.MethodDelete,
		"/api/events",
		strings.NewReader(`{"id":"`+eventModel.ID+`"}`)))
	if w.Code != http.StatusOK {
		t.Fatal("expected 200, got", w.Code, w.Body.String())
	}

	events, err := eventStore.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Error("event must be gone", events)
	}
}

func TestDeleteEventByCompositeID(t *testing.T) {
	muxer, eventStore := newCalendarMux(t)

	// two events sharing the composite identity plus an unrelated one
	for i := 0; i < 2; i++ {
		if err := eventStore.Append(context.Background(), &model.Event{
			ID:           uuid.NewString(),
			Title:        "duplicate",
			StartUnixUTC: 1000,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := eventStore.Append(context.Background(), &model.Event{
		ID:           uuid.NewString(),
		Title:        "bystander",
		StartUnixUTC: 1000,
	}); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(
		http.MethodDelete,
		"/api/events",
		strings.NewReader(`{"id":"1000-duplicate"}`)))
	if w.Code != http.StatusOK {
		t.Fatal("expected 200, got", w.Code, w.Body.String())
	}

	events, err := eventStore.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Title != "bystander" {
		t.Error("both duplicates must go, bystander must survive", events)
	}
}

func TestDeleteEventBadCompositeID(t *testing.T) {
	muxer, _ := newCalendarMux(t)

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(
		http.MethodDelete,
		"/api/events",
		strings.NewReader(`{"id":"not-a-timestamp"}`)))
	if w.Code != http.StatusBadRequest {
		t.Error("expected 400, got", w.Code, w.Body.String())
	}
}
