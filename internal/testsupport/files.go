package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the provided bytes, creating parent
// directories as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteAudio drops a fake audio file with deterministic content derived from
// seed, so distinct seeds produce distinct content hashes.
func WriteAudio(t testing.TB, path string, seed byte) {
	t.Helper()

	content := make([]byte, 256)
	for i := range content {
		content[i] = seed + byte(i)
	}
	WriteFile(t, path, content)
}
