// Package config loads process configuration and the persisted column
// settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds process-level configuration. Values come from MLCLI_*
// environment variables, falling back to the optional profile file at
// ~/.config/mlcli/config.toml. Environment always wins.
type Config struct {
	Workdir  string // MLCLI_WORKDIR (default ".")
	HTTPAddr string // MLCLI_HTTP_ADDR (default ":8080")
	NATSURL  string // MLCLI_NATS_URL (optional, empty = no events)

	// Export upload settings; S3 upload is enabled when the bucket is set.
	ExportS3Bucket   string // MLCLI_EXPORT_S3_BUCKET
	ExportS3Prefix   string // MLCLI_EXPORT_S3_KEY_PREFIX (default "mlcli/exports")
	ExportS3Region   string // MLCLI_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Endpoint string // MLCLI_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
}

// profile is the on-disk shape of the optional config.toml.
type profile struct {
	Workdir  string `toml:"workdir,omitempty"`
	HTTPAddr string `toml:"http_addr,omitempty"`
	NATSURL  string `toml:"nats_url,omitempty"`

	ExportS3Bucket   string `toml:"export_s3_bucket,omitempty"`
	ExportS3Prefix   string `toml:"export_s3_key_prefix,omitempty"`
	ExportS3Region   string `toml:"export_s3_region,omitempty"`
	ExportS3Endpoint string `toml:"export_s3_endpoint,omitempty"`
}

// Load resolves the process configuration.
func Load() (*Config, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}

	c := &Config{
		Workdir:          firstOf(os.Getenv("MLCLI_WORKDIR"), p.Workdir, "."),
		HTTPAddr:         firstOf(os.Getenv("MLCLI_HTTP_ADDR"), p.HTTPAddr, ":8080"),
		NATSURL:          firstOf(os.Getenv("MLCLI_NATS_URL"), p.NATSURL, ""),
		ExportS3Bucket:   firstOf(os.Getenv("MLCLI_EXPORT_S3_BUCKET"), p.ExportS3Bucket, ""),
		ExportS3Prefix:   firstOf(os.Getenv("MLCLI_EXPORT_S3_KEY_PREFIX"), p.ExportS3Prefix, "mlcli/exports"),
		ExportS3Region:   firstOf(os.Getenv("MLCLI_EXPORT_S3_REGION"), p.ExportS3Region, "us-east-1"),
		ExportS3Endpoint: firstOf(os.Getenv("MLCLI_EXPORT_S3_ENDPOINT"), p.ExportS3Endpoint, ""),
	}
	return c, nil
}

// ProfilePath returns the location of the optional TOML profile. Overridable
// via MLCLI_CONFIG_FILE, mainly for tests.
func ProfilePath() (string, error) {
	if p := os.Getenv("MLCLI_CONFIG_FILE"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mlcli", "config.toml"), nil
}

func loadProfile() (profile, error) {
	path, err := ProfilePath()
	if err != nil {
		// No home directory; run on env vars and defaults alone.
		return profile{}, nil
	}
	var p profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return profile{}, nil
		}
		return profile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
