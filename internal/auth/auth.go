// Package auth implements the static shared-secret gate guarding the remote
// read path.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNotConfigured indicates no credential has ever been generated. The
	// remote path must never silently accept traffic in this state.
	ErrNotConfigured = errors.New("no API key configured")

	// ErrUnauthorized indicates a missing or mismatched key.
	ErrUnauthorized = errors.New("invalid API key")
)

const (
	credentialDir  = ".mlcli"
	credentialFile = "auth.json"
	keyBytes       = 32
)

// credential is the on-disk shape of .mlcli/auth.json.
type credential struct {
	APIKey string `json:"apiKey"`
}

// Gate validates presented API keys against the stored credential. At most
// one credential is live at a time; generating a new one immediately
// invalidates the old.
type Gate struct {
	workdir string
}

// NewGate creates a gate reading credentials under workdir.
func NewGate(workdir string) *Gate {
	return &Gate{workdir: workdir}
}

func (g *Gate) path() string {
	return filepath.Join(g.workdir, credentialDir, credentialFile)
}

// Generate creates a new 256-bit random hex token and overwrites any stored
// credential. Previous keys stop validating immediately.
func (g *Gate) Generate() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	key := hex.EncodeToString(buf)

	data, err := json.MarshalIndent(credential{APIKey: key}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode credential: %w", err)
	}

	dir := filepath.Dir(g.path())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, g.path()); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return key, nil
}

// Validate checks a presented key against the stored credential. Exact byte
// match is required; no normalization is applied.
func (g *Gate) Validate(presented string) error {
	stored, err := g.load()
	if err != nil {
		return err
	}
	if presented == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Configured reports whether a credential exists.
func (g *Gate) Configured() bool {
	_, err := g.load()
	return err == nil
}

func (g *Gate) load() (string, error) {
	data, err := os.ReadFile(g.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotConfigured
		}
		return "", fmt.Errorf("read credential: %w", err)
	}
	var c credential
	if err := json.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("decode credential: %w", err)
	}
	if c.APIKey == "" {
		return "", ErrNotConfigured
	}
	return c.APIKey, nil
}
