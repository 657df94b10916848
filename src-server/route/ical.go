package route

import (
	"io"
	"log/slog"
	"net/http"

	"eventcal/src-server/ical"
	"eventcal/src-server/utils"
)

func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /events.ics", func(w http.ResponseWriter, r *http.Request) {
		eventModels, err := as.Events.List(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}

		icalCalendar := ical.NewCalendar("Calendar")
		icalCalendar.SetLocation(as.Config.GetLocation())
		icalCalendar.AddEvent(eventModels...)

		// serialize first so a bad event doesn't leave a half written body
		var buf []byte
		if err := icalCalendar.ToIcal(func(s string) (int, error) {
			buf = append(buf, s...)
			return len(s), nil
		}); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, string(buf)); err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "error", err)
		}
	})
}
