// Package transport provides tests for strategy selection.
package transport

import (
	"errors"
	"strings"
	"testing"

	"github.com/hopon-cli/hopon/internal/target"
)

// withLookPath swaps the capability probe for the duration of a test.
func withLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = orig })
}

// TestSelectResilient tests that mosh is chosen iff the capability probe
// succeeds.
func TestSelectResilient(t *testing.T) {
	withLookPath(t, func(name string) (string, error) {
		if name == "mosh" {
			return "/usr/bin/mosh", nil
		}
		return "", errors.New("not found")
	})

	strategy, execer := Select(Options{})
	if strategy.Name() != "mosh" {
		t.Errorf("strategy = %q, want mosh", strategy.Name())
	}
	if execer == nil {
		t.Fatal("ssh execer must always be available")
	}
}

// TestSelectFallback tests that ssh is chosen when mosh is absent.
func TestSelectFallback(t *testing.T) {
	withLookPath(t, func(name string) (string, error) {
		return "", errors.New("not found")
	})

	strategy, execer := Select(Options{})
	if strategy.Name() != "ssh" {
		t.Errorf("strategy = %q, want ssh", strategy.Name())
	}
	if execer == nil {
		t.Fatal("ssh execer must always be available")
	}
}

// TestBaseArgsStrict tests the default host key posture.
func TestBaseArgsStrict(t *testing.T) {
	ssh := NewSSH(Options{})
	joined := strings.Join(ssh.baseArgs(testProfile()), " ")
	if !strings.Contains(joined, "StrictHostKeyChecking=accept-new") {
		t.Errorf("baseArgs missing accept-new: %s", joined)
	}
	if strings.Contains(joined, "UserKnownHostsFile=/dev/null") {
		t.Errorf("strict mode must not disable known_hosts: %s", joined)
	}
	if !strings.Contains(joined, "-p 2222") {
		t.Errorf("baseArgs missing port: %s", joined)
	}
}

// TestBaseArgsPermissive tests the operator escape-hatch posture.
func TestBaseArgsPermissive(t *testing.T) {
	ssh := NewSSH(Options{Permissive: true})
	joined := strings.Join(ssh.baseArgs(testProfile()), " ")
	for _, want := range []string{"StrictHostKeyChecking=no", "UserKnownHostsFile=/dev/null"} {
		if !strings.Contains(joined, want) {
			t.Errorf("permissive baseArgs missing %q: %s", want, joined)
		}
	}
}

func testProfile() target.Profile {
	return target.Profile{
		Name:      "local",
		Address:   "127.0.0.1",
		Port:      2222,
		Principal: "dev",
		KeyLabel:  "[127.0.0.1]:2222",
	}
}
