// Package trust manages cached host identities for hopon endpoints.
//
// The trust store wraps the operator's OpenSSH known_hosts database. hopon
// never parses or edits known_hosts itself; it drives the standard ssh and
// ssh-keygen tools and owns only the decision logic around them.
package trust

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/target"
)

// ProbeResult classifies the outcome of a zero-interaction authentication probe.
type ProbeResult int

const (
	// ProbeTrusted means the stored fingerprint still matches and
	// non-interactive authentication succeeded.
	ProbeTrusted ProbeResult = iota

	// ProbeAuthMismatch means the endpoint presented an identity that does
	// not match the stored record (suspected rotation).
	ProbeAuthMismatch

	// ProbeNetworkError means the endpoint could not be reached at all.
	// Never treated as a rotation signal.
	ProbeNetworkError
)

// String returns the probe result name for logs.
func (r ProbeResult) String() string {
	switch r {
	case ProbeTrusted:
		return "trusted"
	case ProbeAuthMismatch:
		return "auth-mismatch"
	case ProbeNetworkError:
		return "network-error"
	default:
		return "unknown"
	}
}

// Store is the trust-store interface consumed by the identity verifier.
// The production implementation shells out to ssh/ssh-keygen; tests inject
// an in-memory fake.
type Store interface {
	// HasRecord reports whether a fingerprint is cached for the label.
	HasRecord(ctx context.Context, label string) (bool, error)

	// Probe attempts a zero-interaction authenticated connection that must
	// succeed non-interactively if the stored fingerprint still matches.
	Probe(ctx context.Context, profile target.Profile) (ProbeResult, string, error)

	// Delete removes the cached fingerprint for the label.
	Delete(ctx context.Context, label string) error

	// InstallFresh performs one trust-on-first-use connection so the
	// endpoint's current fingerprint is recorded. Called only after the
	// stale record has been deleted.
	InstallFresh(ctx context.Context, profile target.Profile) error
}

// runner executes a local command and captures its output. Injected so the
// known-hosts store can be tested without a real ssh toolchain.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, exitCode int, err error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}
	return stdout.String(), stderr.String(), exitCode, err
}

// KnownHostsStore is the production Store backed by ~/.ssh/known_hosts.
type KnownHostsStore struct {
	// Path is the known_hosts file consulted by ssh-keygen. Empty means
	// the OpenSSH default.
	Path string

	run runner
}

// NewKnownHostsStore builds the production trust store.
//
// Returns:
//   - *KnownHostsStore: Store over the operator's default known_hosts file
func NewKnownHostsStore() *KnownHostsStore {
	path := ""
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	return &KnownHostsStore{Path: path, run: execRunner{}}
}

// HasRecord checks for a cached fingerprint via `ssh-keygen -F`.
func (s *KnownHostsStore) HasRecord(ctx context.Context, label string) (bool, error) {
	args := []string{"-F", label}
	if s.Path != "" {
		args = append(args, "-f", s.Path)
	}
	_, stderr, code, err := s.run.Run(ctx, "ssh-keygen", args...)
	if err != nil {
		return false, fmt.Errorf("ssh-keygen -F failed: %w", err)
	}
	// Exit 0 when a matching record exists, 1 when not. A missing
	// known_hosts file also reports no record.
	if code == 0 {
		return true, nil
	}
	log.Debug("no trusted record", "label", label, "stderr", strings.TrimSpace(stderr))
	return false, nil
}

// Probe runs a non-interactive ssh connection with strict host key checking.
// The stored fingerprint must match and key auth must succeed without any
// prompt for the probe to pass.
func (s *KnownHostsStore) Probe(ctx context.Context, profile target.Profile) (ProbeResult, string, error) {
	args := []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=yes",
		"-o", "ConnectTimeout=10",
		"-p", strconv.Itoa(profile.Port),
		profile.Destination(),
		"true",
	}
	_, stderr, code, err := s.run.Run(ctx, "ssh", args...)
	if err != nil {
		return ProbeNetworkError, stderr, fmt.Errorf("identity probe could not run ssh: %w", err)
	}
	result := classifyProbe(code, stderr)
	log.Debug("identity probe", "target", profile.Name, "exit", code, "result", result)
	return result, strings.TrimSpace(stderr), nil
}

// Delete removes the label's record via `ssh-keygen -R`.
func (s *KnownHostsStore) Delete(ctx context.Context, label string) error {
	args := []string{"-R", label}
	if s.Path != "" {
		args = append(args, "-f", s.Path)
	}
	_, stderr, code, err := s.run.Run(ctx, "ssh-keygen", args...)
	if err != nil {
		return fmt.Errorf("ssh-keygen -R failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("ssh-keygen -R exited %d: %s", code, strings.TrimSpace(stderr))
	}
	return nil
}

// InstallFresh records the endpoint's current fingerprint with one
// trust-on-first-use connection (`StrictHostKeyChecking=accept-new`).
// The connection must fully succeed for the record to be considered
// installed; a failed connection never mutates the store.
func (s *KnownHostsStore) InstallFresh(ctx context.Context, profile target.Profile) error {
	args := []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "ConnectTimeout=10",
		"-p", strconv.Itoa(profile.Port),
		profile.Destination(),
		"true",
	}
	_, stderr, code, err := s.run.Run(ctx, "ssh", args...)
	if err != nil {
		return fmt.Errorf("trust-on-first-use connection could not run ssh: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("trust-on-first-use connection to %s failed (exit %d): %s",
			profile.Destination(), code, strings.TrimSpace(stderr))
	}
	return nil
}

// Host key and authentication failure signatures emitted by OpenSSH.
// Anything else on a failed probe is treated as a network-layer problem.
var authMismatchSignatures = []string{
	"REMOTE HOST IDENTIFICATION HAS CHANGED",
	"Host key verification failed",
	"HOST KEY VERIFICATION FAILED",
	"Permission denied (publickey",
}

// classifyProbe maps an ssh probe's exit code and stderr to a ProbeResult.
// Rotation is only suspected on an identity/authentication mismatch; genuine
// connectivity failures must not be masked as rotation events.
func classifyProbe(exitCode int, stderr string) ProbeResult {
	if exitCode == 0 {
		return ProbeTrusted
	}
	for _, sig := range authMismatchSignatures {
		if strings.Contains(stderr, sig) {
			return ProbeAuthMismatch
		}
	}
	return ProbeNetworkError
}
