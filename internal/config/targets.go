package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	cperrors "github.com/ksyq12/certpush/internal/errors"
)

// targetsDir is the default config directory
const targetsDir = ".config/certpush"
const targetsFile = "targets.yaml"

// Target is a named appliance profile from targets.yaml.
// Profile values sit below the settings files in precedence.
type Target struct {
	User        string `yaml:"user,omitempty"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port,omitempty"`
	SSHKey      string `yaml:"ssh_key,omitempty"`
	Domain      string `yaml:"domain,omitempty"`
	Certificate string `yaml:"certificate,omitempty"`
	Key         string `yaml:"key,omitempty"`
	SSHOptions  string `yaml:"ssh_options,omitempty"`
}

// Targets is the top-level structure of targets.yaml.
type Targets struct {
	Targets map[string]*Target `yaml:"targets"`
}

// TargetsPath returns the targets file path
func TargetsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, targetsDir, targetsFile), nil
}

// LoadTargets reads the targets file from disk. A missing file yields an
// empty target set.
func LoadTargets() (*Targets, error) {
	path, err := TargetsPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Targets{Targets: make(map[string]*Target)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	targets := &Targets{}
	if err := yaml.Unmarshal(data, targets); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}
	if targets.Targets == nil {
		targets.Targets = make(map[string]*Target)
	}
	return targets, nil
}

// LoadTarget returns one named profile. Referencing a name that does not
// exist is a configuration error.
func LoadTarget(name string) (*Target, error) {
	targets, err := LoadTargets()
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ErrCodeConfig, "failed to load targets", err)
	}
	target, ok := targets.Targets[name]
	if !ok {
		return nil, cperrors.Config(fmt.Sprintf("target %q not found in targets.yaml", name))
	}
	return target, nil
}
