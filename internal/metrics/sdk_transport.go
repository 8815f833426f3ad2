package metrics

import (
	"net/http"
	"time"
)

// RequestWatcher measures every round trip of an instrumented http client.
type RequestWatcher struct {
	name string
	next http.RoundTripper
}

func NewRequestWatcher(name string, next http.RoundTripper) *RequestWatcher {
	if next == nil {
		next = http.DefaultTransport
	}

	return &RequestWatcher{
		name: name,
		next: next,
	}
}

func (m *RequestWatcher) RoundTrip(r *http.Request) (*http.Response, error) {
	var err error
	defer func(start time.Time) {
		CollectRequestsMetric(m.name, r.Method, err, start)
	}(time.Now())

	resp, err := m.next.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
