package diff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/store"
)

// Report is the result of comparing two versions of one job. The diff is
// always computed older -> newer.
type Report struct {
	JobID        string `json:"job_id"`
	OlderVersion int    `json:"older_version"`
	NewerVersion int    `json:"newer_version"`
	Summary      string `json:"summary,omitempty"`
	Lines        []Line `json:"lines,omitempty"`
}

// CompareJob diffs the two most recent versions of jobID. With full=true the
// report carries line-level output, otherwise the structural summary.
func CompareJob(ctx context.Context, s store.Store, jobID string, full bool) (*Report, error) {
	versions, err := s.ListVersions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(versions) < 2 {
		return nil, fmt.Errorf("job %q has %d version(s): %w", jobID, len(versions), store.ErrNotEnoughVersions)
	}
	return CompareVersions(ctx, s, jobID, versions[1], versions[0], full)
}

// CompareVersions diffs two explicit versions of jobID, older -> newer.
func CompareVersions(ctx context.Context, s store.Store, jobID string, older, newer int, full bool) (*Report, error) {
	oldEntry, err := s.GetVersion(ctx, jobID, older)
	if err != nil {
		return nil, err
	}
	newEntry, err := s.GetVersion(ctx, jobID, newer)
	if err != nil {
		return nil, err
	}

	oldDoc, err := snapshotDoc(oldEntry)
	if err != nil {
		return nil, err
	}
	newDoc, err := snapshotDoc(newEntry)
	if err != nil {
		return nil, err
	}

	report := &Report{JobID: jobID, OlderVersion: older, NewerVersion: newer}
	if full {
		report.Lines, err = Full(oldDoc, newDoc)
	} else {
		report.Summary, err = Summarized(oldDoc, newDoc)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// CompareAll runs CompareJob for every known job. Per-job failures are
// collected and returned alongside the successful reports; the batch never
// aborts early.
func CompareAll(ctx context.Context, s store.Store, full bool) ([]*Report, map[string]error, error) {
	jobs, err := s.ListJobs(ctx)
	if err != nil {
		return nil, nil, err
	}

	var reports []*Report
	failures := map[string]error{}
	for _, jobID := range jobs {
		report, err := CompareJob(ctx, s, jobID, full)
		if err != nil {
			failures[jobID] = err
			continue
		}
		reports = append(reports, report)
	}
	return reports, failures, nil
}

// ResolveVersions turns an optionally partial (version1, version2) request
// into a concrete (older, newer) pair. With both absent the pair is the two
// most recent versions. With exactly one supplied, the other defaults to the
// version adjacent to it in the log, never a non-adjacent jump.
func ResolveVersions(versions []int, v1, v2 int) (older, newer int, err error) {
	if len(versions) == 0 {
		return 0, 0, store.ErrNotFound
	}
	present := map[int]bool{}
	for _, v := range versions {
		present[v] = true
	}

	switch {
	case v1 > 0 && v2 > 0:
		older, newer = v1, v2
	case v1 == 0 && v2 == 0:
		if len(versions) < 2 {
			return 0, 0, store.ErrNotEnoughVersions
		}
		older, newer = versions[1], versions[0]
	case v1 > 0:
		older, newer = v1, adjacentAbove(versions, v1)
	default:
		older, newer = adjacentBelow(versions, v2), v2
	}

	if !present[older] || !present[newer] || older == newer {
		return 0, 0, fmt.Errorf("cannot resolve versions (%d, %d): %w", v1, v2, store.ErrNotFound)
	}
	return older, newer, nil
}

// adjacentAbove returns the smallest stored version greater than v, or 0.
func adjacentAbove(versions []int, v int) int {
	best := 0
	for _, n := range versions {
		if n > v && (best == 0 || n < best) {
			best = n
		}
	}
	return best
}

// adjacentBelow returns the largest stored version smaller than v, or 0.
func adjacentBelow(versions []int, v int) int {
	best := 0
	for _, n := range versions {
		if n < v && n > best {
			best = n
		}
	}
	return best
}

// snapshotDoc canonicalizes a version entry's snapshot into plain document
// form for diffing.
func snapshotDoc(entry *model.VersionEntry) (model.Document, error) {
	data, err := model.Canonical(entry.Snapshot)
	if err != nil {
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
