package route

import (
	"log/slog"
	"net/http"
	"time"

	"quickcal/src-server/store"
	"quickcal/src-server/utils"

	ics "github.com/arran4/golang-ical"
)

// Ical serves the whole event collection as an iCalendar feed so external
// clients can subscribe to it.
func Ical(muxer *http.ServeMux, as *utils.AppState, st *store.Store) {
	muxer.HandleFunc("GET /calendar.ics", LogMiddleware(
		func(w http.ResponseWriter, r *http.Request) {
			events, err := st.ReadAll(r.Context())
			if err != nil {
				slog.Error("can't read events for ical feed", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal server error"))
				return
			}

			cal := ics.NewCalendar()
			cal.SetMethod(ics.MethodPublish)
			cal.SetProductId("-//quickcal//EN")
			cal.SetXWRCalName(utils.CleanupString(as.Config.GetCalendarName()))

			now := time.Now().UTC()
			for _, event := range events {
				vevent := cal.AddEvent(event.ID)
				vevent.SetDtStampTime(now)
				vevent.SetSummary(event.Title)
				if event.CreatedAt != 0 {
					vevent.SetCreatedTime(time.Unix(event.CreatedAt, 0).UTC())
				}

				start := time.Unix(event.StartUnixUTC, 0).UTC()
				end := time.Unix(event.EndOrStart(), 0).UTC()
				if event.AllDay {
					vevent.SetAllDayStartAt(start)
					// DTEND is exclusive for all-day events; a same-date end
					// would render as a zero-length event
					vevent.SetAllDayEndAt(
						time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).
							AddDate(0, 0, 1))
					continue
				}
				vevent.SetStartAt(start)
				vevent.SetEndAt(end)
			}

			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
			w.Write([]byte(cal.Serialize()))
		}))
}
