// Package store defines the versioned configuration store interface.
package store

import (
	"context"
	"errors"

	"github.com/GavinEsch/mlcli/internal/model"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound indicates an unknown job or version number.
	ErrNotFound = errors.New("not found")

	// ErrNotEnoughVersions indicates a job has fewer than two versions, so
	// there is nothing to compare.
	ErrNotEnoughVersions = errors.New("not enough versions")
)

// Store is the append-only per-job version log. Put is the only mutation;
// version entries are never rewritten or deleted.
type Store interface {
	// Put records a snapshot for the record's job. When the snapshot is
	// canonically identical to the current latest, no version is written and
	// the existing version number is returned with created=false. Otherwise
	// the next version number is allocated and the entry committed.
	Put(ctx context.Context, rec model.ConfigRecord) (version int, created bool, err error)

	// GetLatest returns the highest-numbered version entry for jobID.
	GetLatest(ctx context.Context, jobID string) (*model.VersionEntry, error)

	// GetVersion returns one specific version entry.
	GetVersion(ctx context.Context, jobID string, version int) (*model.VersionEntry, error)

	// ListVersions returns the job's version numbers in descending order.
	ListVersions(ctx context.Context, jobID string) ([]int, error)

	// ListJobs returns every job ID known to the store, sorted.
	ListJobs(ctx context.Context) ([]string, error)

	Close() error
}
