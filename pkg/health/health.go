package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

const checkTimeout = 3 * time.Second

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewHealthCheckServer(listen, path string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	return &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// DefaultHandler runs every checker and answers 503 when any of them fails.
func DefaultHandler(checks map[string]Checker) http.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := report{
			Status: "ok",
			Checks: make(map[string]string, len(checks)),
		}
		code := http.StatusOK

		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				log.Warn().Err(err).Msgf("health check %s", name)

				resp.Checks[name] = err.Error()
				resp.Status = "fail"
				code = http.StatusServiceUnavailable

				continue
			}

			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error().Err(err).Msg("write health response")
		}
	})
}
