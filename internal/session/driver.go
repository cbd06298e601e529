// Package session implements the remote session continuity protocol:
// attach to the well-known persistent session if it exists, otherwise create
// it and start the interactive assistant inside it, resuming the most recent
// conversation when one exists.
package session

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/transport"
	"github.com/hopon-cli/hopon/internal/ui"
)

// DefaultName is the fixed name of the persistent session on every endpoint.
// The session is a singleton per endpoint: it is created lazily on first
// connection after the endpoint's session host restarts and is never
// destroyed by hopon.
const DefaultName = "hopon"

// Host is the remote session host interface (tmux in production).
type Host interface {
	// SessionExists reports whether the named session is running.
	SessionExists(ctx context.Context, name string) (bool, error)

	// Attach attaches the operator's terminal to the named session and
	// blocks until they detach or the session ends.
	Attach(name string) (int, error)

	// CreateAndRun creates the named session running the command and blocks
	// like Attach.
	CreateAndRun(name string, command transport.RemoteCommand) (int, error)
}

// ResumeStatus classifies a non-interactive resumption attempt.
type ResumeStatus int

const (
	// ResumeOK means a prior conversation exists and can be continued.
	ResumeOK ResumeStatus = iota

	// ResumeNoPrior means the attempt failed with the recognizable
	// no-prior-conversation signature. Not an error to the operator.
	ResumeNoPrior

	// ResumeFailed means the attempt failed for any other reason.
	ResumeFailed
)

// Resumption is the outcome of a resumption attempt.
type Resumption struct {
	// Status classifies the attempt.
	Status ResumeStatus

	// Detail carries diagnostic output for ResumeFailed, shown to the
	// operator before the terminal disappears.
	Detail string
}

// Assistant is the interactive assistant process interface.
type Assistant interface {
	// ContinuePrior attempts to resume the most recent prior conversation
	// non-interactively.
	ContinuePrior(ctx context.Context) Resumption

	// ResumeCommand returns the command that continues the prior
	// conversation interactively.
	ResumeCommand() transport.RemoteCommand

	// FreshCommand returns the command that starts a new conversation.
	FreshCommand() transport.RemoteCommand
}

// Driver guarantees exactly one of: the operator is attached to the
// pre-existing named session, or a new named session is created with the
// assistant started inside it following the resumption protocol.
type Driver struct {
	host      Host
	assistant Assistant
	confirmer ui.Confirmer
	name      string
}

// NewDriver builds a session continuity driver.
//
// Parameters:
//   - host: The remote session host
//   - assistant: The assistant process interface
//   - confirmer: The operator confirmation gate
//
// Returns:
//   - *Driver: The driver, using the fixed default session name
func NewDriver(host Host, assistant Assistant, confirmer ui.Confirmer) *Driver {
	return &Driver{host: host, assistant: assistant, confirmer: confirmer, name: DefaultName}
}

// Run executes the attach-or-create protocol and blocks for the lifetime of
// the interactive session.
//
// Parameters:
//   - ctx: Context for the non-interactive round-trips
//
// Returns:
//   - int: The session's exit status (0 on clean abort-by-choice)
//   - error: Fatal failures reaching the session host or the assistant
func (d *Driver) Run(ctx context.Context) (int, error) {
	exists, err := d.host.SessionExists(ctx, d.name)
	if err != nil {
		return 1, err
	}

	if exists {
		log.Debug("attaching to existing session", "name", d.name)
		ui.PrintDim("Attaching to session %q...", d.name)
		return d.host.Attach(d.name)
	}

	log.Debug("no session, running resumption protocol", "name", d.name)
	res := d.assistant.ContinuePrior(ctx)
	switch res.Status {
	case ResumeOK:
		ui.PrintDim("Resuming your last conversation in a new session %q...", d.name)
		return d.host.CreateAndRun(d.name, d.assistant.ResumeCommand())

	case ResumeNoPrior:
		fresh, err := d.confirmer.Confirm("No prior conversation found. Start a fresh one?", true)
		if err != nil {
			return 1, fmt.Errorf("resumption prompt: %w", err)
		}
		if !fresh {
			ui.PrintInfo("Nothing to resume; exiting without starting an assistant.")
			return 0, nil
		}
		ui.PrintDim("Starting a fresh conversation in a new session %q...", d.name)
		return d.host.CreateAndRun(d.name, d.assistant.FreshCommand())

	default:
		// Keep the diagnostics on screen until acknowledged; operators must
		// be able to read the failure before the terminal disappears.
		ui.PrintError("Could not resume the prior conversation:")
		if res.Detail != "" {
			ui.PrintDim("%s", res.Detail)
		}
		if err := d.confirmer.Acknowledge("Press enter to close."); err != nil {
			return 1, err
		}
		return 1, fmt.Errorf("conversation resumption failed")
	}
}
