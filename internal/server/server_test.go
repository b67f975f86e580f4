package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/GavinEsch/mlcli/internal/auth"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/store"
)

// memStore is an in-memory store.Store with fixed contents.
type memStore struct {
	entries map[string]map[int]*model.VersionEntry
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]map[int]*model.VersionEntry{}}
}

func (m *memStore) add(jobID string, version int, job model.Document) {
	if m.entries[jobID] == nil {
		m.entries[jobID] = map[int]*model.VersionEntry{}
	}
	m.entries[jobID][version] = &model.VersionEntry{
		JobID:     jobID,
		Version:   version,
		Snapshot:  model.ConfigRecord{Job: job},
		CreatedAt: time.Now().UTC(),
	}
}

func (m *memStore) Put(ctx context.Context, rec model.ConfigRecord) (int, bool, error) {
	return 0, false, errors.New("read-only")
}

func (m *memStore) GetLatest(ctx context.Context, jobID string) (*model.VersionEntry, error) {
	versions, err := m.ListVersions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return m.entries[jobID][versions[0]], nil
}

func (m *memStore) GetVersion(ctx context.Context, jobID string, version int) (*model.VersionEntry, error) {
	e, ok := m.entries[jobID][version]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (m *memStore) ListVersions(ctx context.Context, jobID string) ([]int, error) {
	byVersion, ok := m.entries[jobID]
	if !ok {
		return nil, store.ErrNotFound
	}
	var versions []int
	for v := range byVersion {
		versions = append(versions, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

func (m *memStore) ListJobs(ctx context.Context) ([]string, error) {
	var jobs []string
	for id := range m.entries {
		jobs = append(jobs, id)
	}
	sort.Strings(jobs)
	return jobs, nil
}

func (m *memStore) Close() error { return nil }

// testServer returns a configured handler, the generated API key, and the
// backing store.
func testServer(t *testing.T) (http.Handler, string, *memStore) {
	t.Helper()

	ms := newMemStore()
	ms.add("anomaly_detection_job", 1, model.Document{"job_id": "anomaly_detection_job", "description": "v1"})
	ms.add("anomaly_detection_job", 2, model.Document{"job_id": "anomaly_detection_job", "description": "v2"})
	ms.add("single_version_job", 1, model.Document{"job_id": "single_version_job"})

	workdir := t.TempDir()
	gate := auth.NewGate(workdir)
	key, err := gate.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewQueryServer(ms, gate, workdir, logger)
	return srv.NewHTTPHandler(), key, ms
}

func get(t *testing.T, h http.Handler, path, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMissingKeyRejected(t *testing.T) {
	h, _, _ := testServer(t)
	if w := get(t, h, "/jobs", ""); w.Code != http.StatusForbidden {
		t.Errorf("missing key: status = %d, want 403", w.Code)
	}
	if w := get(t, h, "/jobs", "wrong-key"); w.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", w.Code)
	}
}

func TestUnconfiguredGateIs500(t *testing.T) {
	ms := newMemStore()
	workdir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewQueryServer(ms, auth.NewGate(workdir), workdir, logger)
	h := srv.NewHTTPHandler()

	w := get(t, h, "/jobs", "any-key")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 when no key was ever generated", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("expected JSON error body, got %q", w.Body.String())
	}
}

func TestHealthzNeedsNoKey(t *testing.T) {
	h, _, _ := testServer(t)
	if w := get(t, h, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", w.Code)
	}
}

func TestListJobs(t *testing.T) {
	h, key, _ := testServer(t)
	w := get(t, h, "/jobs", key)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var docs []model.ConfigRecord
	if err := json.Unmarshal(w.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d jobs, want 2", len(docs))
	}
}

func TestListJobsFuzzyQuery(t *testing.T) {
	h, key, _ := testServer(t)
	w := get(t, h, "/jobs?query=anomlay", key)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var docs []model.ConfigRecord
	if err := json.Unmarshal(w.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(docs) != 1 || docs[0].JobID() != "anomaly_detection_job" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestCompareDefaultsToLatestPair(t *testing.T) {
	h, key, _ := testServer(t)
	w := get(t, h, "/jobs/anomaly_detection_job/compare", key)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		JobID       string `json:"job_id"`
		Version1    int    `json:"version1"`
		Version2    int    `json:"version2"`
		Differences string `json:"differences"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Version1 != 1 || resp.Version2 != 2 {
		t.Errorf("compared %d -> %d, want 1 -> 2", resp.Version1, resp.Version2)
	}
	if !strings.Contains(resp.Differences, "description") {
		t.Errorf("differences = %q", resp.Differences)
	}
}

func TestCompareUnknownJobIs404(t *testing.T) {
	h, key, _ := testServer(t)
	if w := get(t, h, "/jobs/ghost/compare", key); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCompareUnresolvableVersionsIs400(t *testing.T) {
	h, key, _ := testServer(t)
	tests := []string{
		"/jobs/single_version_job/compare",
		"/jobs/anomaly_detection_job/compare?version1=7&version2=9",
		"/jobs/anomaly_detection_job/compare?version1=abc",
	}
	for _, path := range tests {
		if w := get(t, h, path, key); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestExportFormats(t *testing.T) {
	h, key, _ := testServer(t)

	w := get(t, h, "/jobs/export?format=json", key)
	if w.Code != http.StatusOK {
		t.Fatalf("json export status = %d: %s", w.Code, w.Body.String())
	}
	var entries []model.VersionEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode json export: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("exported %d entries, want 2", len(entries))
	}

	w = get(t, h, "/jobs/export?format=csv", key)
	if w.Code != http.StatusOK {
		t.Fatalf("csv export status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("csv Content-Type = %q", ct)
	}

	w = get(t, h, "/jobs/export?format=md", key)
	if w.Code != http.StatusOK {
		t.Fatalf("md export status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "| ") {
		t.Errorf("md export = %q", w.Body.String()[:20])
	}
}

func TestExportUnknownFormatIs400(t *testing.T) {
	h, key, _ := testServer(t)
	if w := get(t, h, "/jobs/export?format=xml", key); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestExportEmptyCorpusIs404(t *testing.T) {
	ms := newMemStore()
	workdir := t.TempDir()
	gate := auth.NewGate(workdir)
	key, err := gate.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewQueryServer(ms, gate, workdir, logger).NewHTTPHandler()

	if w := get(t, h, "/jobs/export?format=json", key); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for empty corpus", w.Code)
	}
}
