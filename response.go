package main

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"chordsync-go/logcolors"
)

// APIResponse wraps an http.ResponseWriter with a small fluent helper
// for JSON replies.
type APIResponse struct {
	writer http.ResponseWriter
	status int
}

func Respond(w http.ResponseWriter) *APIResponse {
	return &APIResponse{writer: w, status: http.StatusOK}
}

func (a *APIResponse) Status(code int) *APIResponse {
	a.status = code
	return a
}

func (a *APIResponse) JSON(v interface{}) {
	a.writer.Header().Set("Content-Type", "application/json")
	a.writer.WriteHeader(a.status)
	if err := json.NewEncoder(a.writer).Encode(v); err != nil {
		log.WithField("error", err).Error(logcolors.LogServer + " Failed to encode response")
	}
}

func (a *APIResponse) Error(message string, code int) {
	a.Status(code).JSON(map[string]string{"error": message})
}
