package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// errorBody is the error shape of every non-2xx JSON response.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("op", "server/respond").Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, r, status, errorBody{Detail: detail})
}
