package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
)

type Envelope map[string]any

func errorResponse(w http.ResponseWriter, status int, body Envelope) {
	if err := WriteJSON(w, status, body); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	errorResponse(w, http.StatusInternalServerError, Envelope{"error": "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	errorResponse(w, http.StatusBadRequest, Envelope{"error": msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	errorResponse(w, http.StatusNotFound, Envelope{"error": msg})
}

func TooManyRequests(w http.ResponseWriter, msg string) {
	slog.Warn("rate limited", "message", msg)
	errorResponse(w, http.StatusTooManyRequests, Envelope{"error": msg})
}

// Error writes the response matching a service error. Anything unrecognised is a 500.
func Error(w http.ResponseWriter, err error) {
	var incomplete *bracket.IncompleteRoundError
	switch {
	case errors.As(err, &incomplete):
		slog.Warn("bad request", "message", "round incomplete", "error", err)
		errorResponse(w, http.StatusBadRequest, Envelope{
			"error":             "Not all matches in current round are complete",
			"incompleteMatches": incomplete.Pending,
		})
	case errors.Is(err, bracket.ErrValidation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, bracket.ErrNotFound):
		NotFound(w, err.Error(), nil)
	default:
		InternalServerError(w, "request failed", err)
	}
}
