package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marmos91/sandboxfs/internal/logger"
	"github.com/marmos91/sandboxfs/pkg/files"
)

// Messages for failures detected by the HTTP layer itself.
const (
	msgBodyTooLarge     = "Request body too large"
	msgTooManyRequests  = "Too many requests"
	msgNotFound         = "Not Found"
	msgMethodNotAllowed = "Method Not Allowed"
	msgInternal         = "Internal Server Error"
)

// StatusFor maps a file service error kind to its HTTP status.
func StatusFor(kind files.Kind) int {
	switch kind {
	case files.KindNotFound:
		return http.StatusNotFound
	case files.KindConflict:
		return http.StatusConflict
	case files.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err from the file service as an error envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	var fe *files.Error
	if !errors.As(err, &fe) {
		logger.Error("Unexpected error type %T: %v", err, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, StatusFor(fe.Kind), fe.Message)
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}
