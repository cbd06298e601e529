// Package transport selects between the resilient and fallback strategies.
package transport

import (
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/ui"
)

// Options configures transports for one invocation.
type Options struct {
	// Permissive disables strict host key checking. Set only by the identity
	// verifier's operator-confirmed escape hatch, never by default.
	Permissive bool
}

// Strategy is the single abstract operation both transports implement:
// connect to the endpoint and run a remote command interactively.
type Strategy interface {
	// Name identifies the strategy ("mosh" or "ssh").
	Name() string

	// ConnectAndRun runs the command interactively and returns its remote
	// exit status unchanged.
	ConnectAndRun(profile target.Profile, command RemoteCommand) (int, error)
}

// lookPath is swapped in tests to control capability detection.
var lookPath = exec.LookPath

// Select performs the capability probe once and returns the chosen
// interactive strategy plus the ssh transport used for non-interactive
// probes. Selection is total: one of the two strategies always exists.
//
// Parameters:
//   - opts: Transport options for this invocation
//
// Returns:
//   - Strategy: mosh when installed locally, ssh otherwise
//   - *SSH: The ssh transport, always available
func Select(opts Options) (Strategy, *SSH) {
	ssh := NewSSH(opts)
	if _, err := lookPath("mosh"); err == nil {
		log.Debug("transport selected", "strategy", "mosh")
		return NewMosh(ssh), ssh
	}

	// Absence is a condition, not an error: fall back and tell the operator
	// what they are missing.
	ui.PrintDim("mosh not found; using plain ssh (no roaming tolerance).")
	ui.PrintDim("Install mosh for sessions that survive network changes: %s", moshInstallHint())
	log.Debug("transport selected", "strategy", "ssh")
	return ssh, ssh
}

// moshInstallHint returns per-OS installation guidance.
func moshInstallHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "brew install mosh"
	case "linux":
		return "apt install mosh (or your distro's equivalent)"
	default:
		return "https://mosh.org/#getting"
	}
}
