package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/local/printssistant/internal/analysis"
	"github.com/local/printssistant/internal/logger"
	"github.com/local/printssistant/internal/preflight"
	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/quality"
	"github.com/local/printssistant/internal/storage"
)

var (
	errBadJSON      = errors.New("invalid json")
	errNotFound     = errors.New("not found")
	errUnauthorized = errors.New("missing or invalid api key")
	errNotPDF       = errors.New("upload is not a pdf")
	errBadPDF       = errors.New("cannot process pdf")
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadJSON),
		errors.Is(err, preflight.ErrUnknownCheck),
		errors.Is(err, analysis.ErrNoImages),
		errors.Is(err, analysis.ErrTooManyImages):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, printspec.ErrUnknownJob), errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrStaleRequest):
		return http.StatusConflict
	case errors.Is(err, errNotPDF):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, quality.ErrInvalidDimension), errors.Is(err, errBadPDF):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, code, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// badRequest wraps a client input problem that has no sentinel of its own.
func badRequest(msg string) error {
	return &inputError{msg: msg}
}

type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == errBadJSON }
