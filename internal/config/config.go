// Package config loads the on-disk YAML configuration and resolves
// remote-store credentials with the engine's override precedence
// (spec.md §6). Grounded on config.go's LoadConfig path-search shape,
// generalized from a single `.yaml` config to shaha's R2 section plus
// command defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/oritwoen/shaha-go/internal/remote"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration shape.
type File struct {
	R2 struct {
		Endpoint        string `yaml:"endpoint"`
		Bucket          string `yaml:"bucket"`
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		Path            string `yaml:"path"`
	} `yaml:"r2"`
	Defaults struct {
		Algorithms []string `yaml:"algorithms"`
		Output     string   `yaml:"output"`
	} `yaml:"defaults"`
}

// searchPaths returns the config file candidates in priority order:
// cwd's .shaha.yaml, then $XDG_CONFIG_HOME/shaha/config.yaml (or
// ~/.config/shaha/config.yaml when XDG_CONFIG_HOME is unset).
func searchPaths() []string {
	paths := []string{".shaha.yaml"}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdg = filepath.Join(home, ".config")
		}
	}
	if xdg != "" {
		paths = append(paths, filepath.Join(xdg, "shaha", "config.yaml"))
	}
	return paths
}

// Load reads the first existing config file from searchPaths. Absence
// of any config file is not an error — a zero-value File is returned
// so every field falls back to environment or built-in defaults.
func Load() (*File, error) {
	for _, path := range searchPaths() {
		b, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		var f File
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, err
		}
		return &f, nil
	}
	return &File{}, nil
}

// Overrides carries explicit flag values, highest in the precedence
// order.
type Overrides struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Path            string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolveRemote applies the precedence flag > env (SHAHA_R2_*, with
// AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY as secondary fallbacks for
// the two key fields) > config file > built-in default, and fails
// with MissingCredential for any still-empty required field.
func ResolveRemote(file *File, overrides Overrides) (remote.Config, error) {
	if file == nil {
		file = &File{}
	}

	cfg := remote.Config{
		Endpoint:        firstNonEmpty(overrides.Endpoint, os.Getenv("SHAHA_R2_ENDPOINT"), file.R2.Endpoint),
		Bucket:          firstNonEmpty(overrides.Bucket, os.Getenv("SHAHA_R2_BUCKET"), file.R2.Bucket),
		Region:          firstNonEmpty(overrides.Region, os.Getenv("SHAHA_R2_REGION"), file.R2.Region, "auto"),
		AccessKeyID:     firstNonEmpty(overrides.AccessKeyID, os.Getenv("SHAHA_R2_ACCESS_KEY_ID"), os.Getenv("AWS_ACCESS_KEY_ID"), file.R2.AccessKeyID),
		SecretAccessKey: firstNonEmpty(overrides.SecretAccessKey, os.Getenv("SHAHA_R2_SECRET_ACCESS_KEY"), os.Getenv("AWS_SECRET_ACCESS_KEY"), file.R2.SecretAccessKey),
		Path:            firstNonEmpty(overrides.Path, os.Getenv("SHAHA_R2_PATH"), file.R2.Path),
	}

	switch {
	case cfg.Endpoint == "":
		return remote.Config{}, shahaerr.New(shahaerr.KindMissingCredential, "endpoint", nil)
	case cfg.Bucket == "":
		return remote.Config{}, shahaerr.New(shahaerr.KindMissingCredential, "bucket", nil)
	case cfg.AccessKeyID == "":
		return remote.Config{}, shahaerr.New(shahaerr.KindMissingCredential, "access_key_id", nil)
	case cfg.SecretAccessKey == "":
		return remote.Config{}, shahaerr.New(shahaerr.KindMissingCredential, "secret_access_key", nil)
	}
	return cfg, nil
}
