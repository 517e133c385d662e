package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DatasetDir string `toml:"dataset_dir"`
	LogDir     string `toml:"log_dir"`
}

// Dataset contains the constant manifest columns and binning/session knobs.
type Dataset struct {
	Source           string    `toml:"source"`
	RecordingDevice  string    `toml:"recording_device"`
	DurationBinEdges []float64 `toml:"duration_bin_edges"`
	SessionGapMS     int64     `toml:"session_gap_ms"`
}

// Split contains the target partition ratios and the provenance seed.
type Split struct {
	TrainRatio float64 `toml:"train_ratio"`
	ValRatio   float64 `toml:"val_ratio"`
	TestRatio  float64 `toml:"test_ratio"`
	Seed       int64   `toml:"seed"`
}

// Validation contains overrides for the split quality checks.
type Validation struct {
	AllowSmallSplits  bool `toml:"allow_small_splits"`
	SkipTemporalCheck bool `toml:"skip_temporal_check"`
}

// Hashing contains audio hashing concurrency settings.
type Hashing struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for corpus.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Dataset    Dataset    `toml:"dataset"`
	Split      Split      `toml:"split"`
	Validation Validation `toml:"validation"`
	Hashing    Hashing    `toml:"hashing"`
	Logging    Logging    `toml:"logging"`
}

// SampleConfig returns the annotated sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the annotated sample configuration to target.
func CreateSample(target string) error {
	return os.WriteFile(target, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves tilde shortcuts and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/corpus/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. When no file exists the
// repository defaults are returned; exists reports which case occurred.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("corpus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the dataset and log directories if necessary.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DatasetDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RegistryPath returns the version registry database location.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Paths.DatasetDir, "versions.db")
}
