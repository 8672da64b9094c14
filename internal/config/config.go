// Package config resolves fastdl's on-disk locations and loads its
// YAML configuration file, following the dotdir-under-home convention
// the teacher's TUI uses for its own settings directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/surge-downloader/fastdl/internal/engine/types"
)

const dirName = ".fastdl"

// GetConfigDir returns the directory fastdl stores its config and logs
// under, creating nothing. Falls back to the relative path ".fastdl"
// if the home directory can't be resolved.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(homeDir, dirName)
}

// GetLogsDir returns the debug log directory under the config dir.
func GetLogsDir() string {
	return filepath.Join(GetConfigDir(), "logs")
}

// EnsureDirs creates the config and logs directories if absent.
func EnsureDirs() error {
	if err := os.MkdirAll(GetLogsDir(), 0o755); err != nil {
		return fmt.Errorf("creating config directories: %w", err)
	}
	return nil
}

// File is the on-disk shape of fastdl's YAML config file, mapping
// directly onto types.Config plus the handful of path settings that
// aren't part of the engine's own config.
type File struct {
	Connections    int    `yaml:"connections"`
	ChunkSizeMB    int    `yaml:"chunk_size_mb"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`
	MaxConcurrent  int    `yaml:"max_concurrent"`
	Verbose        bool   `yaml:"verbose"`
	OutputDir      string `yaml:"output_dir"`
}

// Default returns the File form of types.DefaultConfig with an empty
// output directory (meaning "current working directory").
func Default() File {
	d := types.DefaultConfig()
	return File{
		Connections:    d.Connections,
		ChunkSizeMB:    d.ChunkSizeMB,
		TimeoutSeconds: d.TimeoutSeconds,
		Retries:        d.Retries,
		MaxConcurrent:  d.MaxConcurrent,
		Verbose:        d.Verbose,
	}
}

// Load reads and parses a YAML config file at path. A missing file is
// not an error — the caller gets Default() back, letting CLI flags be
// the only required input.
func Load(path string) (File, error) {
	f := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return f, nil
}

// Engine converts the loaded file into the engine's Config type.
func (f File) Engine() types.Config {
	return types.Config{
		Connections:    f.Connections,
		ChunkSizeMB:    f.ChunkSizeMB,
		TimeoutSeconds: f.TimeoutSeconds,
		Retries:        f.Retries,
		MaxConcurrent:  f.MaxConcurrent,
		Verbose:        f.Verbose,
	}
}
