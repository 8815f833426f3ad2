package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestUnitRequestWatcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := testutil.CollectAndCount(RemoteRequestsHistogram)

	cl := &http.Client{Transport: NewRequestWatcher("watcher_test", nil)}
	resp, err := cl.Get(srv.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Equal(t, before+1, testutil.CollectAndCount(RemoteRequestsHistogram))
}
