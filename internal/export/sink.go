package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Destination receives serialized export output.
type Destination interface {
	// Write stores the rendered corpus for the given format.
	Write(ctx context.Context, format string, data []byte) error

	// Name identifies the destination in logs and CLI output.
	Name() string
}

// FileDestination writes exports/jobs.<format> under the work directory,
// overwriting the previous run's output.
type FileDestination struct {
	workdir string
}

// NewFileDestination creates a file destination rooted at workdir.
func NewFileDestination(workdir string) *FileDestination {
	return &FileDestination{workdir: workdir}
}

func (d *FileDestination) Write(ctx context.Context, format string, data []byte) error {
	dir := filepath.Join(d.workdir, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create exports directory: %w", err)
	}

	path := filepath.Join(dir, FileName(format))
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

func (d *FileDestination) Name() string {
	return filepath.Join(d.workdir, "exports")
}

// Path returns where the file destination stores output for a format.
func (d *FileDestination) Path(format string) string {
	return filepath.Join(d.workdir, "exports", FileName(format))
}
