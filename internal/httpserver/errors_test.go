package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"mediwallet/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name required", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("open share: %w", domain.ErrShareExpired), http.StatusGone},
		{domain.ErrPlatformUnsupported, http.StatusNotImplemented},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{domain.ErrAssetCopy, http.StatusBadGateway},
		{domain.ErrAnalysisUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), c.err.Error())
	}
}

func TestErrorWriterHidesInternalErrors(t *testing.T) {
	var logs bytes.Buffer
	e := &errorWriter{logger: slog.New(slog.NewTextHandler(&logs, nil))}

	rec := httptest.NewRecorder()
	e.write(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil), errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	assert.Contains(t, logs.String(), "disk on fire")
}
