package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
)

func fakeVerify(ctx context.Context, credential string) (auth.Identity, error) {
	switch credential {
	case "good":
		return auth.Identity{UserID: "u1", UserName: "alice"}, nil
	case "outage":
		return auth.Identity{}, fmt.Errorf("%w: db down", common.ErrorInternal)
	default:
		return auth.Identity{}, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}
}

func TestAuthenticate(t *testing.T) {
	var seen auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Authenticate(fakeVerify)(next)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"verifier outage", "Bearer outage", http.StatusInternalServerError},
		{"valid token", "Bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = auth.Identity{}
			req := httptest.NewRequest(http.MethodGet, "/files", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNoContent {
				assert.Equal(t, "alice", seen.UserName)
			} else {
				assert.Empty(t, seen.UserID)
			}
		})
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			log := newRecordingLogger()
			h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("abc"))
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			entries := log.byMessage("http request")
			require.Len(t, entries, 1)
			assert.Equal(t, tc.level, entries[0].level)
			assert.Contains(t, entries[0].args, "bytes")
			assert.Contains(t, entries[0].args, int64(3))
		})
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		msg    string
		ok     bool
	}{
		{fmt.Errorf("%w: name is required", common.ErrorValidation), 400, CodeValidationError, "name is required", true},
		{errors.Join(common.ErrorAlreadyExists, users.ErrEmailTaken), 400, CodeValidationError, "email is already registered", true},
		{fmt.Errorf("get file: %w", common.ErrorNotFound), 404, CodeNotFound, "file not found", true},
		{common.ErrorAccessDenied, 403, CodeAccessDenied, "access denied", true},
		{common.ErrorInvalidPassword, 403, CodeInvalidPassword, "invalid password", true},
		{common.ErrorUnauthorized, 401, CodeUnauthorized, "unauthorized", true},
		{fmt.Errorf("%w: file 1", common.ErrorBlobInconsistent), 404, CodeNotFound, "file not found", true},
		{errors.New("pq: connection refused"), 500, CodeInternalError, internalMessage, false},
	}
	for _, tc := range cases {
		status, code, msg, ok := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
		assert.Equal(t, tc.ok, ok, tc.err.Error())
	}
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="report.pdf"`, contentDisposition("report.pdf"))
	assert.Equal(t, `attachment; filename="a_b.txt"`+`; filename*=UTF-8''a%22b.txt`, contentDisposition(`a"b.txt`))
	assert.Equal(t, `attachment; filename="__.txt"; filename*=UTF-8''%D0%BE%D1%82.txt`, contentDisposition("от.txt"))
}
