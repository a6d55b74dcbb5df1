package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Suite is a YAML-defined verification run: which samples to check, how
// often, and which requirement categories block.
type Suite struct {
	Version      int      `yaml:"version"`
	Samples      []string `yaml:"samples"`
	Passes       int      `yaml:"passes,omitempty"`
	Workers      int      `yaml:"workers,omitempty"`
	Critical     []string `yaml:"critical,omitempty"`
	Requirements []string `yaml:"requirements,omitempty"`
}

// LoadSuite reads a suite file. Sample entries may be globs and are
// resolved relative to the suite file's directory.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite YAML: %w", err)
	}

	base := filepath.Dir(path)
	var samples []string
	for _, pattern := range s.Samples {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad sample pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Keep the literal path so the run reports it as unreadable.
			matches = []string{pattern}
		}
		samples = append(samples, matches...)
	}
	s.Samples = samples
	return &s, nil
}
