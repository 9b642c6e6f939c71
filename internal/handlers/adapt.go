package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cinezuva/cinezuva/internal/logger"
)

type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

type Error struct {
	Status  int
	Message string
}

func (e Error) Error() string {
	return e.Message + " code=" + strconv.FormatInt(int64(e.Status), 10)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Adapt turns a handler's error into a JSON error body. Unexpected errors
// are logged and reported without their details.
func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			var statusErr *Error
			if errors.As(err, &statusErr) {
				writeJSON(w, statusErr.Status, &errorResponse{Error: statusErr.Message})
				return
			}
			slog.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "internal error"})
		}
	})
}
