package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestName is the file name of the persisted manifest inside the output dir.
const ManifestName = "manifest.json"

// ManifestEntry tracks the content hash and processing time of one file.
type ManifestEntry struct {
	Hash        string    `json:"hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Manifest maps repository-relative file paths to their last-processed state.
// It drives change detection for incremental updates and is meaningless
// without the graph artifact written alongside it.
type Manifest map[string]ManifestEntry

// LoadManifest reads a manifest from dir, returning an empty manifest when
// none exists yet.
func LoadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if os.IsNotExist(err) {
		return Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// Save writes the manifest to dir, creating dir if needed.
func (m Manifest) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}
