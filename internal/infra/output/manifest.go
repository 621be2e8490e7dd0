// Where: cli/internal/infra/output/manifest.go
// What: Build-artifact manifest listing files produced by the previous run.
// Why: Cleanup must only remove directories this tool generated, never user-authored functions.
package output

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/poruru/fnsdk/cli/internal/meta"
)

// Manifest is the functionsSdk.out file at the output root.
// Entries are output-root relative paths with forward slashes.
type Manifest struct {
	Path string
	mu   sync.Mutex
}

// OpenManifest returns the manifest for an output root without touching disk.
func OpenManifest(outputRoot string) *Manifest {
	return &Manifest{Path: filepath.Join(outputRoot, meta.ArtifactsManifest)}
}

// Entries reads the recorded artifact paths; a missing manifest has none.
func (m *Manifest) Entries() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := os.ReadFile(m.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, filepath.ToSlash(strings.ReplaceAll(line, `\`, "/")))
	}
	return entries, scanner.Err()
}

// Reset deletes the manifest so the current run starts a fresh list.
func (m *Manifest) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Remove(m.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset manifest: %w", err)
	}
	return nil
}

// Record appends one artifact path.
func (m *Manifest) Record(rel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(m.Path), 0o755); err != nil {
		return fmt.Errorf("record manifest: %w", err)
	}
	f, err := os.OpenFile(m.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("record manifest: %w", err)
	}
	if _, err := fmt.Fprintln(f, filepath.ToSlash(rel)); err != nil {
		f.Close()
		return fmt.Errorf("record manifest: %w", err)
	}
	return f.Close()
}
