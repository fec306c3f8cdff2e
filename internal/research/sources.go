// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// SourcesFileName is the fixed file name for a saved research run.
const SourcesFileName = "sources.yaml"

// SourcesFile is the on-disk record of one research run (R5.1).
type SourcesFile struct {
	Query       string            `json:"query" yaml:"query"`
	CollectedAt time.Time         `json:"collected_at" yaml:"collected_at"`
	Sources     []types.SourceRef `json:"sources" yaml:"sources"`
}

// WriteSources saves a research run under dir and returns the file path.
func WriteSources(dir, query string, sources []types.SourceRef) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating research dir: %w", err)
	}

	sf := SourcesFile{
		Query:       query,
		CollectedAt: time.Now().UTC(),
		Sources:     sources,
	}
	data, err := yaml.Marshal(sf)
	if err != nil {
		return "", fmt.Errorf("marshaling sources: %w", err)
	}

	path := filepath.Join(dir, SourcesFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ReadSources loads a sources file written by WriteSources.
func ReadSources(path string) (*SourcesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var sf SourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &sf, nil
}
