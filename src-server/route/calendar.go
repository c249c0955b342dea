package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"quickcal/src-server/model"
	"quickcal/src-server/natural"
	"quickcal/src-server/store"
	"quickcal/src-server/utils"

	"github.com/google/uuid"
)

type OneEventRespBody struct {
	ID           string `json:"id"`
	LegacyID     string `json:"legacyId"`
	Title        string `json:"title"`
	StartUnixUTC int64  `json:"startUnixUTC"`
	EndUnixUTC   int64  `json:"endUnixUTC"`
	AllDay       bool   `json:"allDay"`
}

func eventResp(event model.Event) OneEventRespBody {
	return OneEventRespBody{
		ID:           event.ID,
		LegacyID:     event.LegacyID(),
		Title:        event.Title,
		StartUnixUTC: event.StartUnixUTC,
		EndUnixUTC:   event.EndUnixUTC,
		AllDay:       event.AllDay,
	}
}

func Calendar(muxer *http.ServeMux, as *utils.AppState, st *store.Store) {
	type CreateEventReqBody struct {
		Title        string `json:"title"`
		StartUnixUTC int64  `json:"startUnixUTC"`
		EndUnixUTC   int64  `json:"endUnixUTC"`
		AllDay       bool   `json:"allDay"`
	}

	type DeleteEventReqBody struct {
		ID string `json:"id"`
	}

	// all events in insertion order
	muxer.HandleFunc("GET /api/events", LogMiddleware(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			events, err := st.ReadAll(r.Context())
			if err != nil {
				slog.Error("can't read events", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
				return
			}

			respBody := make([]OneEventRespBody, 0, len(events))
			for _, event := range events {
				respBody = append(respBody, eventResp(event))
			}
			json.NewEncoder(w).Encode(respBody)
		}))

	// direct structured create, bypasses the natural language pipeline
	muxer.HandleFunc("POST /api/events", LogMiddleware(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody CreateEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Invalid request body"}`))
				return
			}

			newEvent := model.Event{
				ID:           uuid.NewString(),
				Title:        natural.TruncateTitle(utils.CleanupString(reqBody.Title)),
				StartUnixUTC: reqBody.StartUnixUTC,
				EndUnixUTC:   reqBody.EndUnixUTC,
				AllDay:       reqBody.AllDay,
			}
			switch {
			case newEvent.Title == "":
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please provide a title"}`))
				return
			case newEvent.StartUnixUTC == 0:
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please provide a start date"}`))
				return
			}

			if err := st.Append(r.Context(), &newEvent); err != nil {
				slog.Error("can't create event", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
				return
			}

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(eventResp(newEvent))
		}))

	// update is delete-then-recreate under the addressed ID
	muxer.HandleFunc("PUT /api/events/{id}", LogMiddleware(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			id := r.PathValue("id")
			if id == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please provide an event ID"}`))
				return
			}

			var reqBody CreateEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Invalid request body"}`))
				return
			}

			replacement := model.Event{
				Title:        natural.TruncateTitle(utils.CleanupString(reqBody.Title)),
				StartUnixUTC: reqBody.StartUnixUTC,
				EndUnixUTC:   reqBody.EndUnixUTC,
				AllDay:       reqBody.AllDay,
			}
			if replacement.Title == "" || replacement.StartUnixUTC == 0 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please provide a title and a start date"}`))
				return
			}

			switch err := st.Replace(r.Context(), id, &replacement); {
			case errors.Is(err, store.ErrNotFound):
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"Event not found"}`))
				return
			case err != nil:
				slog.Error("can't replace event", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
				return
			}

			json.NewEncoder(w).Encode(eventResp(replacement))
		}))

	// delete by generated ID or by the legacy "<start>-<title>" composite;
	// the composite removes every matching duplicate
	muxer.HandleFunc("DELETE /api/events", LogMiddleware(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody DeleteEventReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Invalid request body"}`))
				return
			}
			if reqBody.ID == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please provide an event ID"}`))
				return
			}

			if _, err := uuid.Parse(reqBody.ID); err == nil {
				if _, err := st.DeleteByID(r.Context(), reqBody.ID); err != nil {
					slog.Error("can't delete event", "error", err)
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"Internal server error"}`))
					return
				}
				w.Write([]byte(`{"message":"Event deleted"}`))
				return
			}

			startStr, title, found := strings.Cut(reqBody.ID, "-")
			startUnix, convErr := strconv.ParseInt(startStr, 10, 64)
			if !found || convErr != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Invalid event ID"}`))
				return
			}
			if _, err := st.DeleteByIdentity(r.Context(), startUnix, title); err != nil {
				slog.Error("can't delete event", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}`))
				return
			}
			w.Write([]byte(`{"message":"Event deleted"}`))
		}))
}
