package analysis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediwallet/internal/analysis"
	"mediwallet/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestAnalyzeStubMode(t *testing.T) {
	c := analysis.NewClient(time.Second, true)
	text, err := c.Analyze(context.Background(), analysis.Request{})
	require.NoError(t, err)
	assert.Equal(t, analysis.StubAnalysis, text)
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	c := analysis.NewClient(time.Second, false)
	_, err := c.Analyze(context.Background(), analysis.Request{Provider: domain.ProviderOpenAI, Image: pngHeader})
	assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
}

func TestAnalyzeUnknownProvider(t *testing.T) {
	c := analysis.NewClient(time.Second, false)
	_, err := c.Analyze(context.Background(), analysis.Request{Provider: "acme", APIKey: "k", Image: pngHeader})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalyzeOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		raw, _ := json.Marshal(body)
		assert.Contains(t, string(raw), "data:image/png;base64,")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Glucose 5.1 mmol/L  "}}]}`))
	}))
	defer srv.Close()

	c := analysis.NewClient(time.Second, false, analysis.WithEndpoint(domain.ProviderOpenAI, srv.URL))
	text, err := c.Analyze(context.Background(), analysis.Request{
		Provider: domain.ProviderOpenAI, APIKey: "sk-test", TestType: "blood", Image: pngHeader,
	})
	require.NoError(t, err)
	assert.Equal(t, "Glucose 5.1 mmol/L", text)
}

func TestAnalyzeGemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"line one"},{"text":"line two"}]}}]}`))
	}))
	defer srv.Close()

	c := analysis.NewClient(time.Second, false, analysis.WithEndpoint(domain.ProviderGoogle, srv.URL))
	text, err := c.Analyze(context.Background(), analysis.Request{
		Provider: domain.ProviderGoogle, APIKey: "g-key", Image: pngHeader, MediaType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", text)
}

func TestAnalyzeAnthropic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		w.Write([]byte(`{"content":[{"type":"text","text":"all normal"}]}`))
	}))
	defer srv.Close()

	c := analysis.NewClient(time.Second, false, analysis.WithEndpoint(domain.ProviderAnthropic, srv.URL))
	text, err := c.Analyze(context.Background(), analysis.Request{
		Provider: domain.ProviderAnthropic, APIKey: "a-key", Image: pngHeader,
	})
	require.NoError(t, err)
	assert.Equal(t, "all normal", text)
}

func TestAnalyzeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := analysis.NewClient(time.Second, false, analysis.WithEndpoint(domain.ProviderMistral, srv.URL))
	_, err := c.Analyze(context.Background(), analysis.Request{
		Provider: domain.ProviderMistral, APIKey: "m", Image: pngHeader,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
	assert.Contains(t, err.Error(), "429")
}
