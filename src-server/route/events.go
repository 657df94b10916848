package route

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"eventcal/src-server/model"
	"eventcal/src-server/utils"
)

// Request bodies above this size are rejected with 413.
const maxBodyBytes = 1 << 20

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// list every event, no paging
	muxer.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		eventModels, err := as.Events.List(r.Context())
		if err != nil {
			slog.Error("can't list events", "error", err)
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, eventModels)
	})

	// a single event
	muxer.HandleFunc("GET /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		eventModel, err := as.Events.Get(r.Context(), id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeErr(w, http.StatusNotFound, "Event not found")
		case err != nil:
			slog.Error("can't get event", "id", id, "error", err)
			writeErr(w, http.StatusInternalServerError, err.Error())
		default:
			writeJSON(w, http.StatusOK, eventModel)
		}
	})

	// create an event, the response carries the generated id
	muxer.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		eventModel, ok := decodeEvent(w, r, as)
		if !ok {
			return
		}

		created, err := as.Events.Create(r.Context(), eventModel)
		if err != nil {
			slog.Error("can't create event", "error", err)
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		slog.Info("event created", "id", created.ID, "title", created.Title)
		writeJSON(w, http.StatusOK, created)
	})

	// replace every field of an event
	muxer.HandleFunc("PUT /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		eventModel, ok := decodeEvent(w, r, as)
		if !ok {
			return
		}

		if err := as.Events.Update(r.Context(), id, eventModel); err != nil {
			slog.Error("can't update event", "id", id, "error", err)
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, MessageRespBody{Message: "Event updated successfully."})
	})

	// delete an event
	muxer.HandleFunc("DELETE /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := as.Events.Delete(r.Context(), id); err != nil {
			slog.Error("can't delete event", "id", id, "error", err)
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, MessageRespBody{Message: "Event deleted successfully."})
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid event ID")
		return 0, false
	}
	return id, true
}

func decodeEvent(w http.ResponseWriter, r *http.Request, as *utils.AppState) (model.Event, bool) {
	var reqBody model.EventInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&reqBody); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErr(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return model.Event{}, false
		}
		writeErr(w, http.StatusBadRequest, "Invalid request body")
		return model.Event{}, false
	}

	eventModel, err := reqBody.Validate(as.Config.GetLocation())
	if err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			writeErr(w, http.StatusBadRequest, validationErr.Error())
			return model.Event{}, false
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return model.Event{}, false
	}
	return eventModel, true
}
