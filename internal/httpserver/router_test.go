package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediwallet/internal/config"
	"mediwallet/internal/domain"
	"mediwallet/internal/httpserver"
	"mediwallet/internal/platform"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		AppName:     "mediwallet",
		CORSOrigins: []string{"http://localhost:3000"},
		Database:    config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "records.db")},
		Assets:      config.AssetsConfig{Dir: filepath.Join(dir, "images")},
		Platform:    config.PlatformConfig{LocalStorage: true},
		Share:       config.ShareConfig{Secret: "test-secret", MaxDuration: domain.MaxShareDuration},
		AI:          config.AIConfig{StubMode: true, Timeout: time.Second},
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testConfig(t)
	backend, err := platform.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(httpserver.NewRouter(cfg, backend, nil))
	t.Cleanup(func() {
		srv.Close()
		backend.Close()
	})
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func uploadTestResult(t *testing.T, srv *httptest.Server, testType string, image []byte) int64 {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("test_type", testType))
	require.NoError(t, mw.WriteField("notes", "morning"))
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(image)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/test-results", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	return int64(created["id"].(float64))
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decode[map[string]string](t, resp)["status"])
}

func TestTestResultLifecycle(t *testing.T) {
	srv := newServer(t)
	id := uploadTestResult(t, srv, "blood", []byte("\x89PNG\r\n\x1a\nimage"))

	resp, err := http.Get(srv.URL + "/api/test-results")
	require.NoError(t, err)
	list := decode[[]domain.TestResult](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "blood", list[0].TestType)
	assert.Equal(t, ".png", filepath.Ext(list[0].ImagePath))

	resp = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/test-results/%d", srv.URL, id), map[string]string{"results": "normal"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[domain.TestResult](t, resp)
	assert.Equal(t, "normal", *updated.Results)
	assert.Equal(t, "morning", *updated.Notes)

	resp, err = http.Get(fmt.Sprintf("%s/api/test-results/%d/image", srv.URL, id))
	require.NoError(t, err)
	img, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "\x89PNG\r\n\x1a\nimage", string(img))

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/test-results/%d/analysis?save=true", srv.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string]string](t, resp)["analysis"])

	resp, err = http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	stats := decode[domain.DatabaseStats](t, resp)
	assert.Equal(t, 1, stats.TotalTests)
	assert.Positive(t, stats.TotalSize)

	for i := 0; i < 2; i++ {
		resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/test-results/%d", srv.URL, id), nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/test-results/%d", srv.URL, id))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTestResultValidation(t *testing.T) {
	srv := newServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/test-results", map[string]string{"test_type": " ", "image_path": "x.jpg"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/api/settings")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "null", strings.TrimSpace(string(body)))

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/settings", map[string]string{"user_name": "Alice"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/settings", map[string]string{
		"user_name": "Alice", "doctor_name": "Dr. B", "ai_api_key": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := decode[map[string]any](t, resp)
	assert.Equal(t, "Alice", raw["user_name"])
	assert.NotEmpty(t, raw["user_id"])
	assert.NotContains(t, raw, "ai_api_key")
}

func TestChatEndpoints(t *testing.T) {
	srv := newServer(t)

	for _, m := range []map[string]string{
		{"sender_id": "alice", "receiver_id": "bob", "message": "Hi Bob"},
		{"sender_id": "bob", "receiver_id": "alice", "message": "Hi Alice"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/chat/messages", m)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/chat/messages", map[string]string{"sender_id": "alice", "receiver_id": "alice", "message": "me"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/chat/messages?user=bob&with=alice")
	require.NoError(t, err)
	msgs := decode[[]domain.ChatMessage](t, resp)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hi Bob", msgs[0].Message)

	resp, err = http.Get(srv.URL + "/api/chat/conversations?user=bob")
	require.NoError(t, err)
	convs := decode[[]domain.ChatConversation](t, resp)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].UnreadCount)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/chat/read", map[string]string{"from": "alice", "to": "bob"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/chat/conversations?user=bob")
	require.NoError(t, err)
	convs = decode[[]domain.ChatConversation](t, resp)
	assert.Zero(t, convs[0].UnreadCount)

	resp, err = http.Get(srv.URL + "/api/chat/conversations?user=nobody")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestShareEndpoints(t *testing.T) {
	srv := newServer(t)
	id := uploadTestResult(t, srv, "urine", []byte("jpeg"))
	sharesURL := fmt.Sprintf("%s/api/test-results/%d/shares", srv.URL, id)

	resp := doJSON(t, http.MethodPost, sharesURL, map[string]string{"recipient_name": "Dr. X", "expires_in": "49h"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/test-results/%d/shares", srv.URL, id+100),
		map[string]string{"recipient_name": "Dr. X", "expires_in": "1h"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, sharesURL, map[string]string{"recipient_name": "Dr. X", "expires_in": "24h"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	url, _ := created["url"].(string)
	require.NotEmpty(t, url)

	resp, err := http.Get(srv.URL + url)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shared := decode[domain.SharedTestResult](t, resp)
	assert.Equal(t, id, shared.TestResult.ID)

	resp, err = http.Get(sharesURL)
	require.NoError(t, err)
	statuses := decode[[]map[string]any](t, resp)
	require.Len(t, statuses, 1)
	assert.Equal(t, true, statuses[0]["active"])

	resp, err = http.Get(srv.URL + "/api/shared/garbage")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnsupportedPlatform(t *testing.T) {
	cfg := testConfig(t)
	cfg.Platform.LocalStorage = false
	backend, err := platform.Open(context.Background(), cfg, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(httpserver.NewRouter(cfg, backend, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/test-results")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestCreateTestResultRemovesImageWhenStoreFails(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Database.Path = filepath.Join(blocker, "records.db")

	backend, err := platform.NativeFromConfig(context.Background(), cfg, nil)()
	require.NoError(t, err)
	srv := httptest.NewServer(httpserver.NewRouter(cfg, backend, nil))
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("test_type", "blood"))
	fw, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/test-results", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	entries, err := os.ReadDir(cfg.Assets.Dir)
	if !os.IsNotExist(err) {
		require.NoError(t, err)
	}
	assert.Empty(t, entries)
}
