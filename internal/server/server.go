// Package server exposes the read-only remote query surface over HTTP. All
// mutation happens through the local import path; no write route exists here.
package server

import (
	"context"
	"log/slog"

	"github.com/GavinEsch/mlcli/internal/auth"
	"github.com/GavinEsch/mlcli/internal/config"
	"github.com/GavinEsch/mlcli/internal/flatten"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/search"
	"github.com/GavinEsch/mlcli/internal/store"
)

// QueryServer composes the store with the query engines behind the HTTP
// handlers.
type QueryServer struct {
	store   store.Store
	gate    *auth.Gate
	workdir string
	logger  *slog.Logger
}

// NewQueryServer creates a query server over the given store. The work
// directory is where column settings are read from on each request.
func NewQueryServer(s store.Store, gate *auth.Gate, workdir string, logger *slog.Logger) *QueryServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryServer{store: s, gate: gate, workdir: workdir, logger: logger}
}

// latestEntries loads the latest version entry of every known job.
func (s *QueryServer) latestEntries(ctx context.Context) ([]*model.VersionEntry, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]*model.VersionEntry, 0, len(jobs))
	for _, jobID := range jobs {
		entry, err := s.store.GetLatest(ctx, jobID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// columns resolves the configured column selection, empty meaning defaults.
// Settings are re-read per request; separate invocations of the tool must
// observe saved changes without a restart.
func (s *QueryServer) columns() []string {
	settings, err := config.LoadSettings(s.workdir)
	if err != nil {
		s.logger.Warn("failed to load settings, using default columns", "err", err)
		return nil
	}
	return settings.Columns
}

// filterRows applies the fuzzy query to the flattened view of entries and
// returns the surviving entries in ranked order.
func filterRows(entries []*model.VersionEntry, query string) []*model.VersionEntry {
	if query == "" {
		return entries
	}
	byID := make(map[string]*model.VersionEntry, len(entries))
	rows := make([]model.Row, 0, len(entries))
	for _, e := range entries {
		row := flatten.Flatten(e.Snapshot)
		byID[row.Get(model.FieldJobID)] = e
		rows = append(rows, row)
	}

	ranked := search.FuzzySearch(rows, query, search.DefaultKeys, search.DefaultThreshold)
	out := make([]*model.VersionEntry, 0, len(ranked))
	for _, row := range ranked {
		if e, ok := byID[row.Get(model.FieldJobID)]; ok {
			out = append(out, e)
		}
	}
	return out
}
