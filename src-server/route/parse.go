package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"quickcal/src-server/natural"
	"quickcal/src-server/utils"
)

// Parse wires the natural language ingestion entry point: one sentence in,
// either a persisted event or a conflict report out.
func Parse(muxer *http.ServeMux, as *utils.AppState, pipeline *natural.Pipeline) {
	type ParseReqBody struct {
		Text  string `json:"text"`
		Force bool   `json:"force"`
	}

	type ErrorRespBody struct {
		Error      string `json:"error"`
		Suggestion string `json:"suggestion,omitempty"`
	}

	type CreatedRespBody struct {
		Event   OneEventRespBody `json:"event"`
		Message string           `json:"message"`
	}

	type ConflictRespBody struct {
		Message        string             `json:"message"`
		Conflicts      []OneEventRespBody `json:"conflicts"`
		SuggestedEvent OneEventRespBody   `json:"suggestedEvent"`
	}

	muxer.HandleFunc("POST /api/parse", LogMiddleware(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody ParseReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorRespBody{Error: "Invalid request body"})
				return
			}

			result, err := pipeline.Ingest(r.Context(), reqBody.Text, reqBody.Force)
			if err != nil {
				slog.Error("can't ingest text", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorRespBody{Error: "Internal server error"})
				return
			}

			switch result.Status {
			case natural.StatusRejected:
				w.WriteHeader(http.StatusBadRequest)
				if errors.Is(result.Reason, natural.ErrInvalidInput) {
					json.NewEncoder(w).Encode(ErrorRespBody{
						Error: "Invalid input: text is required",
					})
					return
				}
				json.NewEncoder(w).Encode(ErrorRespBody{
					Error:      "Could not determine date from your input",
					Suggestion: "Try being more specific (e.g., 'Team meeting Thursday at 2pm')",
				})

			case natural.StatusConflict:
				first := result.Conflicts[0]
				conflicts := make([]OneEventRespBody, 0, len(result.Conflicts))
				for _, event := range result.Conflicts {
					conflicts = append(conflicts, eventResp(event))
				}
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ConflictRespBody{
					Message: fmt.Sprintf("Time conflict with %q from %s",
						first.Title,
						time.Unix(first.StartUnixUTC, 0).
							In(as.Config.GetLocation()).
							Format(time.Kitchen)),
					Conflicts:      conflicts,
					SuggestedEvent: eventResp(*result.Event),
				})

			case natural.StatusCreated:
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(CreatedRespBody{
					Event: eventResp(*result.Event),
					Message: fmt.Sprintf("Added %q on %s",
						result.Event.Title,
						time.Unix(result.Event.StartUnixUTC, 0).
							In(as.Config.GetLocation()).
							Format("Jan 2, 2006")),
				})
			}
		}))
}
