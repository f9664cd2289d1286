package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project is the optional per-project papyrus.yaml configuration: the
// transpiler's source/destination directories and optimizer toggles.
type Project struct {
	// ContractsDir is where transpile looks for *.yul sources. Defaults to
	// DefaultContractsDir.
	ContractsDir string `yaml:"contracts_dir,omitempty"`

	// OutputDir is where generated *.masm files are written. Defaults to
	// DefaultOutputDir.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Optimize toggles the AST optimizer passes (constant propagation,
	// for-to-repeat promotion). Defaults to true.
	Optimize *bool `yaml:"optimize,omitempty"`
}

// LoadProject reads and parses a papyrus.yaml file at path.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config %s: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.setDefaults()
	return &p, nil
}

// FindProject searches dir and its ancestors for papyrus.yaml, walking
// upward toward the filesystem root. Returns "" with a nil error if none
// is found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (p *Project) setDefaults() {
	if p.ContractsDir == "" {
		p.ContractsDir = DefaultContractsDir
	}
	if p.OutputDir == "" {
		p.OutputDir = DefaultOutputDir
	}
	if p.Optimize == nil {
		t := true
		p.Optimize = &t
	}
}

// OptimizeEnabled reports whether the optimizer should run, defaulting to
// true for a nil Project (no papyrus.yaml present).
func (p *Project) OptimizeEnabled() bool {
	if p == nil || p.Optimize == nil {
		return true
	}
	return *p.Optimize
}
