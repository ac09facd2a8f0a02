package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"modelbridge/internal/manager"
	"modelbridge/internal/session"
	"modelbridge/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	if manager.IsModelNotFound(err) {
		return http.StatusNotFound
	}
	switch session.KindOf(err) {
	case session.KindInvalidArgument:
		return http.StatusBadRequest
	case session.KindNotFound:
		return http.StatusNotFound
	case session.KindMalformedFormat, session.KindUnsupportedVersion:
		return http.StatusUnprocessableEntity
	case session.KindResourceExhausted:
		return http.StatusInsufficientStorage
	case session.KindNotLoaded:
		return http.StatusConflict
	case session.KindUnavailable:
		return http.StatusServiceUnavailable
	case session.KindCanceled:
		return http.StatusRequestTimeout
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// errorKind returns the machine-readable class reported in error payloads.
func errorKind(err error) string {
	if manager.IsModelNotFound(err) {
		return string(session.KindNotFound)
	}
	return string(session.KindOf(err))
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSONErrorKind(w, status, msg, "")
}

func writeJSONErrorKind(w http.ResponseWriter, status int, msg, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status, Kind: kind})
}
