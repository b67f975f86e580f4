package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GavinEsch/mlcli/internal/diff"
	"github.com/GavinEsch/mlcli/internal/export"
	"github.com/GavinEsch/mlcli/internal/flatten"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/store"
)

// NewHTTPHandler returns an http.Handler with all routes registered. Every
// route except GET /healthz requires a valid x-api-key header.
func (s *QueryServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/export", s.handleExport)
	mux.HandleFunc("GET /jobs/{id}/compare", s.handleCompare)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.requestLogger(s.apiKeyMiddleware(mux))
}

// handleHealth handles GET /healthz.
func (s *QueryServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListJobs handles GET /jobs?query=<text>: the latest snapshot of every
// job, fuzzy-filtered and ranked when query is present.
func (s *QueryServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	entries, err := s.latestEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries = filterRows(entries, r.URL.Query().Get("query"))

	docs := make([]model.ConfigRecord, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.Snapshot)
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleCompare handles GET /jobs/{id}/compare?version1=&version2=. Both
// versions are optional; a missing side defaults to the version adjacent to
// the supplied one, or to the latest-vs-previous pair when neither is given.
func (s *QueryServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	v1, ok := parseVersionParam(r, "version1")
	if !ok {
		writeError(w, http.StatusBadRequest, "version1 must be a positive integer")
		return
	}
	v2, ok := parseVersionParam(r, "version2")
	if !ok {
		writeError(w, http.StatusBadRequest, "version2 must be a positive integer")
		return
	}

	versions, err := s.store.ListVersions(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown job "+jobID)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	older, newer, err := diff.ResolveVersions(versions, v1, v2)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot resolve versions to compare: "+err.Error())
		return
	}

	report, err := diff.CompareVersions(r.Context(), s.store, jobID, older, newer, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":      report.JobID,
		"version1":    report.OlderVersion,
		"version2":    report.NewerVersion,
		"differences": report.Summary,
	})
}

// handleExport handles GET /jobs/export?format=json|csv|md.
func (s *QueryServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}

	entries, err := s.latestEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := export.Serialize(entries, flatten.FlattenAll(entries), format, s.columns())
	switch {
	case errors.Is(err, export.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, export.ErrNoJobs):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func contentTypeFor(format string) string {
	switch format {
	case export.FormatCSV:
		return "text/csv; charset=utf-8"
	case export.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "application/json"
	}
}

// parseVersionParam reads an optional positive-integer query parameter;
// 0 means absent.
func parseVersionParam(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
