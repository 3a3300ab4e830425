package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest summarizes one generation run. It is written next to the
// examples as run.yaml so downstream tooling can consume counts and
// file lists without re-parsing logs.
type Manifest struct {
	Package     string         `yaml:"package"`
	Model       string         `yaml:"model"`
	GeneratedAt time.Time      `yaml:"generated_at"`
	Counts      ManifestCounts `yaml:"counts"`
	Tokens      *TokenUsage    `yaml:"tokens,omitempty"`
	Files       []string       `yaml:"files"`
}

// ManifestCounts breaks down how many examples each phase produced.
type ManifestCounts struct {
	Extracted int `yaml:"extracted"`
	Generated int `yaml:"generated"`
	Accepted  int `yaml:"accepted"`
	Repaired  int `yaml:"repaired"`
	Dropped   int `yaml:"dropped"`
}

// TokenUsage records model token consumption for the run.
type TokenUsage struct {
	Input  int64 `yaml:"input"`
	Output int64 `yaml:"output"`
	Calls  int   `yaml:"calls"`
}

// writeManifest writes the manifest as run.yaml under dir.
func writeManifest(dir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "run.yaml"), data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
