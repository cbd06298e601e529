// Package target provides the optional targets override file.
//
// This file handles reading ~/.config/hopon/targets.yaml, which can extend or
// override the built-in target set.
package target

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File represents the targets.yaml override file.
type File struct {
	// Default overrides the built-in default target name.
	Default string `yaml:"default,omitempty"`

	// Targets maps target names to their definitions.
	Targets map[string]Definition `yaml:"targets,omitempty"`
}

// Definition is one target entry in targets.yaml.
type Definition struct {
	// Address is the hostname or IP address to connect to.
	Address string `yaml:"address"`

	// Port is the SSH port (default 22).
	Port int `yaml:"port,omitempty"`

	// Principal is the remote login user (default "dev").
	Principal string `yaml:"principal,omitempty"`

	// KeyLabel overrides the derived known-hosts label.
	KeyLabel string `yaml:"key_label,omitempty"`
}

// profile converts a definition into a resolved profile, applying defaults.
func (d Definition) profile(name string) Profile {
	p := Profile{
		Name:      name,
		Address:   d.Address,
		Port:      d.Port,
		Principal: d.Principal,
		KeyLabel:  d.KeyLabel,
	}
	if p.Port == 0 {
		p.Port = 22
	}
	if p.Principal == "" {
		p.Principal = "dev"
	}
	return p
}

// DefaultFilePath returns the standard location of targets.yaml.
//
// Returns:
//   - string: Path to ~/.config/hopon/targets.yaml
//   - error: If the home directory cannot be determined
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hopon", "targets.yaml"), nil
}

// LoadFile reads and parses a targets file. A missing file is not an error;
// it returns (nil, nil) so callers fall back to the built-in set.
//
// Parameters:
//   - path: Path to the targets file
//
// Returns:
//   - *File: The parsed file, or nil if absent
//   - error: If the file exists but cannot be read or parsed
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read targets file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse targets file %s: %w", path, err)
	}

	for name, def := range f.Targets {
		if def.Address == "" {
			return nil, fmt.Errorf("targets file %s: target %q has no address", path, name)
		}
	}

	return &f, nil
}
