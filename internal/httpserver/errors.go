package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"mediwallet/internal/domain"
)

type errorWriter struct {
	logger *slog.Logger
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrShareExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrPlatformUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAssetCopy), errors.Is(err, domain.ErrAnalysisUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (e *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		e.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
