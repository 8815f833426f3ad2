package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitDefaultHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	for name, tc := range map[string]struct {
		checks map[string]Checker
		code   int
		status string
	}{
		"no checks": {
			checks: map[string]Checker{},
			code:   http.StatusOK,
			status: "ok",
		},
		"all healthy": {
			checks: map[string]Checker{"db": ok, "redis": ok},
			code:   http.StatusOK,
			status: "ok",
		},
		"one failing": {
			checks: map[string]Checker{"db": ok, "redis": broken},
			code:   http.StatusServiceUnavailable,
			status: "fail",
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DefaultHandler(tc.checks).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

			require.Equal(t, tc.code, rec.Code)

			var resp report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tc.status, resp.Status)
			require.Len(t, resp.Checks, len(tc.checks))
		})
	}
}
