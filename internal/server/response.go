package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/me/credsched/pkg/model"
)

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respond writes data in the standard envelope.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeEnvelope(w, r, status, model.Response{Status: "ok", Data: data})
}

// respondPage writes one page of a list with its pagination metadata.
func respondPage(w http.ResponseWriter, r *http.Request, data any, pg *model.Pagination) {
	writeEnvelope(w, r, http.StatusOK, model.Response{Status: "ok", Data: data, Pagination: pg})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *model.APIError) {
	writeEnvelope(w, r, status, model.Response{Status: "error", Error: apiErr})
}

// respondInternal reports an unexpected failure as INTERNAL_ERROR.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, env model.Response) {
	env.RequestID = RequestIDFromContext(r.Context())
	env.Timestamp = time.Now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
