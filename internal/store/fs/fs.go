// Package fs implements the store.Store interface on the local filesystem.
//
// Layout under the work directory:
//
//	jobs/<job_id>/v<N>.json    immutable version entry, N >= 1
//	jobs/<job_id>/meta.json    {"next_version": N} allocation counter
//	jobs/<job_id>/latest.json  duplicate of the current latest entry
//
// Every write goes through a temp-file-plus-rename commit, so a crash leaves
// either the old or the new file, never a torn mix. The latest.json copy and
// the meta counter are conveniences: reads always recompute the latest
// version from the highest v<N>.json actually present, which makes the store
// self-healing after a crash between the version write and the pointer
// update.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/store"
)

const (
	jobsDir    = "jobs"
	metaFile   = "meta.json"
	latestFile = "latest.json"
)

// Store implements store.Store on a work directory.
type Store struct {
	root string
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New opens (creating if needed) a filesystem store rooted at workdir.
func New(workdir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(workdir, jobsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create jobs directory: %w", err)
	}
	return &Store{root: workdir}, nil
}

// meta is the per-job allocation counter persisted as meta.json.
type meta struct {
	NextVersion int `json:"next_version"`
}

func (s *Store) jobDir(jobID string) string {
	return filepath.Join(s.root, jobsDir, jobID)
}

// validJobID rejects identifiers that cannot be used as a directory name.
func validJobID(jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return errors.New("empty job_id")
	}
	if strings.ContainsAny(jobID, `/\`) || jobID == "." || jobID == ".." {
		return fmt.Errorf("invalid job_id %q", jobID)
	}
	return nil
}

// Put appends a new version for the record's job, unless the snapshot is
// canonically identical to the current latest. The version file is committed
// before the meta counter and the latest.json copy are advanced.
func (s *Store) Put(ctx context.Context, rec model.ConfigRecord) (int, bool, error) {
	jobID := rec.JobID()
	if err := validJobID(jobID); err != nil {
		return 0, false, err
	}

	dir := s.jobDir(jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, false, fmt.Errorf("create job directory: %w", err)
	}

	versions, err := scanVersions(dir)
	if err != nil {
		return 0, false, err
	}

	if len(versions) > 0 {
		latest, err := s.readEntry(jobID, versions[0])
		if err != nil {
			return 0, false, err
		}
		same, err := model.Equal(rec, latest.Snapshot)
		if err != nil {
			return 0, false, err
		}
		if same {
			return latest.Version, false, nil
		}
	}

	next, err := s.nextVersion(dir, versions)
	if err != nil {
		return 0, false, err
	}

	entry := model.VersionEntry{
		JobID:     jobID,
		Version:   next,
		Snapshot:  rec,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return 0, false, fmt.Errorf("encode version entry: %w", err)
	}

	if err := writeAtomic(filepath.Join(dir, versionFile(next)), data); err != nil {
		return 0, false, fmt.Errorf("write version %d: %w", next, err)
	}

	metaData, err := json.Marshal(meta{NextVersion: next + 1})
	if err != nil {
		return 0, false, fmt.Errorf("encode meta: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, metaFile), metaData); err != nil {
		return 0, false, fmt.Errorf("write meta: %w", err)
	}

	// The latest.json copy is advisory; readers recompute from version files.
	if err := writeAtomic(filepath.Join(dir, latestFile), data); err != nil {
		return 0, false, fmt.Errorf("write latest pointer: %w", err)
	}

	return next, true, nil
}

// nextVersion resolves the next version number from the persisted counter,
// reconciled against the version files actually present. The scan only ever
// raises the counter; an externally deleted version file can never cause a
// number to be reissued.
func (s *Store) nextVersion(dir string, versions []int) (int, error) {
	m := meta{NextVersion: 1}
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &m); err != nil {
			return 0, fmt.Errorf("decode meta: %w", err)
		}
	case os.IsNotExist(err):
		// First write, or a store created before meta files existed.
	default:
		return 0, fmt.Errorf("read meta: %w", err)
	}

	if len(versions) > 0 && versions[0] >= m.NextVersion {
		m.NextVersion = versions[0] + 1
	}
	if m.NextVersion < 1 {
		m.NextVersion = 1
	}
	return m.NextVersion, nil
}

// GetLatest returns the highest-numbered version entry for jobID.
func (s *Store) GetLatest(ctx context.Context, jobID string) (*model.VersionEntry, error) {
	versions, err := s.ListVersions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.readEntry(jobID, versions[0])
}

// GetVersion returns one specific version entry.
func (s *Store) GetVersion(ctx context.Context, jobID string, version int) (*model.VersionEntry, error) {
	if err := validJobID(jobID); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, fmt.Errorf("version %d for job %q: %w", version, jobID, store.ErrNotFound)
	}
	return s.readEntry(jobID, version)
}

// ListVersions returns the job's version numbers in descending order.
func (s *Store) ListVersions(ctx context.Context, jobID string) ([]int, error) {
	if err := validJobID(jobID); err != nil {
		return nil, err
	}
	versions, err := scanVersions(s.jobDir(jobID))
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("job %q: %w", jobID, store.ErrNotFound)
	}
	return versions, nil
}

// ListJobs returns every job ID with at least one stored version, sorted.
func (s *Store) ListJobs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, jobsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}

	var jobs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		versions, err := scanVersions(filepath.Join(s.root, jobsDir, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(versions) > 0 {
			jobs = append(jobs, e.Name())
		}
	}
	sort.Strings(jobs)
	return jobs, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) readEntry(jobID string, version int) (*model.VersionEntry, error) {
	path := filepath.Join(s.jobDir(jobID), versionFile(version))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("job %q version %d: %w", jobID, version, store.ErrNotFound)
		}
		return nil, fmt.Errorf("read version %d for job %q: %w", version, jobID, err)
	}
	var entry model.VersionEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode version %d for job %q: %w", version, jobID, err)
	}
	return &entry, nil
}

func versionFile(n int) string {
	return fmt.Sprintf("v%d.json", n)
}

// scanVersions lists the version numbers present in a job directory,
// descending. A missing directory yields an empty slice.
func scanVersions(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read job directory: %w", err)
	}

	var versions []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "v") || !strings.HasSuffix(name, ".json") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "v"), ".json"))
		if err != nil || n < 1 {
			continue
		}
		versions = append(versions, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// writeAtomic commits data to path via a temp file in the same directory and
// an atomic rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
