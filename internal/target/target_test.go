// Package target provides tests for target resolution.
package target

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestResolveBuiltins tests resolution of the built-in target set.
func TestResolveBuiltins(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name         string
		input        string
		wantName     string
		wantDest     string
		wantPort     int
		wantKeyLabel string
		wantErr      bool
	}{
		{name: "local container", input: "local", wantName: "local", wantDest: "dev@127.0.0.1", wantPort: 2222, wantKeyLabel: "[127.0.0.1]:2222"},
		{name: "remote host", input: "hunter", wantName: "hunter", wantDest: "dev@hunter", wantPort: 22, wantKeyLabel: "hunter"},
		{name: "empty selects default", input: "", wantName: "local", wantDest: "dev@127.0.0.1", wantPort: 2222, wantKeyLabel: "[127.0.0.1]:2222"},
		{name: "whitespace selects default", input: "  ", wantName: "local", wantDest: "dev@127.0.0.1", wantPort: 2222, wantKeyLabel: "[127.0.0.1]:2222"},
		{name: "unknown name", input: "production", wantErr: true},
		{name: "case sensitive", input: "Local", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Resolve(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) expected error, got %+v", tt.input, p)
				}
				if !errors.Is(err, ErrUnknownTarget) {
					t.Errorf("Resolve(%q) error = %v, want ErrUnknownTarget", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.input, err)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.Destination() != tt.wantDest {
				t.Errorf("Destination = %q, want %q", p.Destination(), tt.wantDest)
			}
			if p.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", p.Port, tt.wantPort)
			}
			if p.KeyLabel != tt.wantKeyLabel {
				t.Errorf("KeyLabel = %q, want %q", p.KeyLabel, tt.wantKeyLabel)
			}
		})
	}
}

// TestResolverOverrides tests that a targets file extends and overrides the
// built-in set.
func TestResolverOverrides(t *testing.T) {
	overrides := &File{
		Default: "hunter",
		Targets: map[string]Definition{
			"hunter": {Address: "hunter.example.net", Principal: "ops"},
			"lab":    {Address: "10.0.0.5", Port: 2200},
		},
	}
	r := NewResolver(overrides)

	if got := r.DefaultTarget(); got != "hunter" {
		t.Errorf("DefaultTarget = %q, want %q", got, "hunter")
	}

	p, err := r.Resolve("hunter")
	if err != nil {
		t.Fatalf("Resolve(hunter) unexpected error: %v", err)
	}
	if p.Destination() != "ops@hunter.example.net" {
		t.Errorf("overridden Destination = %q, want %q", p.Destination(), "ops@hunter.example.net")
	}
	if p.KeyLabel != "hunter.example.net" {
		t.Errorf("KeyLabel = %q, want %q", p.KeyLabel, "hunter.example.net")
	}

	p, err = r.Resolve("lab")
	if err != nil {
		t.Fatalf("Resolve(lab) unexpected error: %v", err)
	}
	if p.Principal != "dev" {
		t.Errorf("default Principal = %q, want %q", p.Principal, "dev")
	}
	if p.KeyLabel != "[10.0.0.5]:2200" {
		t.Errorf("KeyLabel = %q, want %q", p.KeyLabel, "[10.0.0.5]:2200")
	}

	// Built-in targets not mentioned in the file survive.
	if _, err := r.Resolve("local"); err != nil {
		t.Errorf("Resolve(local) unexpected error: %v", err)
	}
}

// TestNamesSorted tests that Names returns a stable sorted list.
func TestNamesSorted(t *testing.T) {
	r := NewResolver(&File{Targets: map[string]Definition{
		"zeta":  {Address: "z"},
		"alpha": {Address: "a"},
	}})
	names := r.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names not sorted: %v", names)
		}
	}
}

// TestLoadFile tests parsing of the targets override file.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is not an error", func(t *testing.T) {
		f, err := LoadFile(filepath.Join(dir, "absent.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f != nil {
			t.Fatalf("expected nil file, got %+v", f)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "targets.yaml")
		content := "default: lab\ntargets:\n  lab:\n    address: 10.0.0.5\n    port: 2200\n    principal: ops\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		f, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Default != "lab" {
			t.Errorf("Default = %q, want %q", f.Default, "lab")
		}
		def, ok := f.Targets["lab"]
		if !ok {
			t.Fatalf("lab target missing: %+v", f.Targets)
		}
		if def.Address != "10.0.0.5" || def.Port != 2200 || def.Principal != "ops" {
			t.Errorf("unexpected definition: %+v", def)
		}
	})

	t.Run("missing address rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("targets:\n  broken:\n    port: 22\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected error for target without address")
		}
	})

	t.Run("invalid yaml rejected", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(path, []byte(":\t not yaml ["), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
