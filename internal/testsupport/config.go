package testsupport

import (
	"path/filepath"
	"testing"

	"corpus/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatasetDir = filepath.Join(base, "datasets")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}
