package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (http.Handler, testEnv) {
	t.Helper()

	env := newTestEnv(t)
	srv := NewServer(NewService(env.repo, NewDirectory(env.remote, env.cache)))
	srv.now = func() time.Time {
		return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	}

	return srv.Handler(), env
}

func doRequest(h http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req.Header.Set(CurrentUserHeader, user)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestUnitServerCreateAndGet(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doRequest(h, http.MethodPost, "/v1/profiles", "u1", `{"userName":"Ana","stylePreferences":{"focusMode":true,"contrast":"high"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "u1", created.ID)
	require.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), created.CreatedAt)

	rec = doRequest(h, http.MethodGet, "/v1/profiles/u1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, created, got)
}

func TestUnitServerUpdate(t *testing.T) {
	h, env := newTestServer(t)

	rec := doRequest(h, http.MethodPost, "/v1/profiles", "u1", `{"id":"u1","userName":"Ana"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(h, http.MethodPatch, "/v1/profiles/u1", "u1", `{"userName":"Ana2","stylePreferences":{"spacing":"compact"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	raw, _, err := env.remote.Get(context.Background(), "profiles/u1")
	require.NoError(t, err)
	require.JSONEq(t, `{"nome":"Ana2","dataCriacao":"2024-01-15T09:30:00Z","stylePreferences":{"spacing":"compact"}}`, string(raw))
}

func TestUnitServerErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		method string
		target string
		user   string
		body   string
		status int
	}{
		"get missing": {
			method: http.MethodGet,
			target: "/v1/profiles/ghost",
			status: http.StatusNotFound,
		},
		"create anonymous": {
			method: http.MethodPost,
			target: "/v1/profiles",
			body:   `{"id":"u1"}`,
			status: http.StatusUnauthorized,
		},
		"create for another user": {
			method: http.MethodPost,
			target: "/v1/profiles",
			user:   "u2",
			body:   `{"id":"u1"}`,
			status: http.StatusForbidden,
		},
		"create with broken body": {
			method: http.MethodPost,
			target: "/v1/profiles",
			user:   "u1",
			body:   `{"id":`,
			status: http.StatusBadRequest,
		},
		"create with unknown contrast": {
			method: http.MethodPost,
			target: "/v1/profiles",
			user:   "u1",
			body:   `{"stylePreferences":{"contrast":"neon"}}`,
			status: http.StatusBadRequest,
		},
		"update anonymous": {
			method: http.MethodPatch,
			target: "/v1/profiles/u1",
			body:   `{"userName":"x"}`,
			status: http.StatusUnauthorized,
		},
		"update another user": {
			method: http.MethodPatch,
			target: "/v1/profiles/u1",
			user:   "u2",
			body:   `{"userName":"x"}`,
			status: http.StatusForbidden,
		},
		"update id mismatch": {
			method: http.MethodPatch,
			target: "/v1/profiles/u1",
			user:   "u1",
			body:   `{"id":"u2"}`,
			status: http.StatusBadRequest,
		},
		"unsupported method": {
			method: http.MethodDelete,
			target: "/v1/profiles/u1",
			user:   "u1",
			status: http.StatusMethodNotAllowed,
		},
	} {
		t.Run(name, func(t *testing.T) {
			h, _ := newTestServer(t)

			rec := doRequest(h, tc.method, tc.target, tc.user, tc.body)
			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestUnitServerList(t *testing.T) {
	h, _ := newTestServer(t)

	for _, id := range []string{"b", "a"} {
		rec := doRequest(h, http.MethodPost, "/v1/profiles", id, `{"userName":"user"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(h, http.MethodGet, "/v1/profiles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].ID)
}
