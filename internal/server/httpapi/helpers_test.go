package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/blobstore"
	"github.com/dmitrijs2005/linkshare/internal/server/cache"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/memory"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger keeps every entry; children share the parent's buffer.
type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l recordingLogger) With(...any) logging.Logger                       { return l }

func (l recordingLogger) byMessage(msg string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range *l.entries {
		if e.msg == msg {
			out = append(out, e)
		}
	}
	return out
}

// testApp wires the real services over in-memory repositories and blobs.
type testApp struct {
	handler http.Handler
	repos   *memory.RepositoryManager
	blobs   *blobstore.MemoryStore
	log     recordingLogger

	// sql only backs transactions; the repositories are in memory
	sql sqlmock.Sqlmock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret-key"
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 2 * time.Hour

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := newRecordingLogger()
	reg := prometheus.NewRegistry()
	repos := memory.NewRepositoryManager()
	blobs := blobstore.NewMemoryStore()
	links := cache.NewLinkCache(16, time.Minute, reg)

	us := services.NewUserService(db, repos, cfg, log)
	fs := services.NewFileService(db, repos, blobs, links, cfg, log, services.NewFileMetrics(reg))

	h := NewHandler(us, fs, log, cfg.MaxUploadSize)
	return &testApp{handler: NewRouter(h, us.Verify, reg), repos: repos, blobs: blobs, log: log, sql: mock}
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path, token string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func uploadRequest(t *testing.T, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, rec).Error.Code
}

// registerAndLogin returns an access token for a fresh user.
func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	rec := a.do(t, jsonRequest(t, http.MethodPost, "/register", "", registerRequest{
		Username: username, Email: username + "@example.com", Password: "secret1",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, jsonRequest(t, http.MethodPost, "/login", "", loginRequest{Username: username, Password: "secret1"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginResponse](t, rec).Token
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
