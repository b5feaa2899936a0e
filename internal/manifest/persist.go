package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"podpress/internal/fileutil"
)

// FileName is the manifest's conventional name inside a project root.
const FileName = "manifest.yaml"

// ErrNotFound is returned when no manifest exists at the given path.
var ErrNotFound = errors.New("manifest not found")

// Load reads and validates the manifest document at path. The whole document
// is read on every operation; there are no partial updates.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// Save persists the manifest with write-replace semantics: the document is
// serialized to a temporary file and atomically renamed over path, so a crash
// mid-write never corrupts durable state.
func Save(path string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid manifest: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("persist manifest: %w", err)
	}
	return nil
}
