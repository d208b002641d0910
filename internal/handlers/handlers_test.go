package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/internal/db/dbtest"
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/internal/policy"
)

type testEnv struct {
	t  *testing.T
	db *gorm.DB
	rc *policy.RouterConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn := dbtest.New(t)
	return &testEnv{t: t, db: conn, rc: policy.NewRouterConfig(conn, log)}
}

func (e *testEnv) user(email string) *models.User {
	e.t.Helper()
	u, err := e.rc.UserService.CreateUser(context.Background(), email, "password123")
	require.NoError(e.t, err)
	return u
}

// call routes a single request to h through a chi router so {id} resolves.
// body may be nil, a raw string or any JSON-encodable value.
func call(t *testing.T, h http.HandlerFunc, method, pattern, target string, user *models.User, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type named struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}
