package route

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorRespBody struct {
	Error string `json:"error"`
}

type MessageRespBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("can't write response", "where", "route/respond.go", "error", err)
	}
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorRespBody{Error: msg})
}
