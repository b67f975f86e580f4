package server

import (
	"errors"
	"net/http"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/GavinEsch/mlcli/internal/auth"
)

// apiKeyMiddleware checks the x-api-key header on every request except
// GET /healthz. A missing or mismatched key is rejected with 403; a server
// that has never generated a credential rejects everything with 500 so an
// unconfigured deployment can never silently serve traffic.
func (s *QueryServer) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		err := s.gate.Validate(r.Header.Get("x-api-key"))
		switch {
		case errors.Is(err, auth.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "server has no API key configured; run 'mlcli auth --generate'")
			return
		case err != nil:
			writeError(w, http.StatusForbidden, "invalid or missing API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs method, path, status, and duration for every request,
// tagged with a short request ID.
func (s *QueryServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID, err := nanoid.New(8)
		if err != nil {
			reqID = "unknown"
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info("request completed",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
