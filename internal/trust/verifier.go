// Package trust implements the host identity verification workflow.
package trust

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/ui"
)

// Outcome is the terminal state of a verification run. Connections may only
// proceed from one of these two states.
type Outcome int

const (
	// OutcomeTrusted means the endpoint's identity is verified (or no record
	// existed yet, deferring first-contact trust to the transport layer).
	OutcomeTrusted Outcome = iota

	// OutcomePermissive means the operator declined the rotation workflow
	// and chose to proceed with reduced identity checking for this
	// invocation only. Always preceded by a security warning.
	OutcomePermissive
)

// ErrConnection marks fatal connectivity failures during verification.
var ErrConnection = errors.New("connection failed")

// Verifier ensures the local trust store either has no record for the
// endpoint's key label, or has a record matching the endpoint's current
// fingerprint, before any data-carrying connection is attempted.
type Verifier struct {
	store     Store
	confirmer ui.Confirmer
}

// NewVerifier builds a verifier.
//
// Parameters:
//   - store: The trust store
//   - confirmer: The operator confirmation gate
//
// Returns:
//   - *Verifier: The verifier
func NewVerifier(store Store, confirmer ui.Confirmer) *Verifier {
	return &Verifier{store: store, confirmer: confirmer}
}

// Ensure runs the verification workflow for one endpoint.
//
// States: NoRecord and Trusted proceed silently. A failed probe that looks
// like an identity mismatch enters SuspectedRotation and asks the operator
// whether the endpoint was rebuilt:
//   - yes: delete the stale record, install the fresh fingerprint via one
//     trust-on-first-use connection, continue trusted
//   - no: continue with permissive host checking after a loud warning
//
// Any network-layer probe failure is fatal; it is never treated as rotation.
//
// Parameters:
//   - ctx: Context for the probe round-trips
//   - profile: The resolved endpoint profile
//
// Returns:
//   - Outcome: OutcomeTrusted or OutcomePermissive
//   - error: Fatal connection or trust-store errors
func (v *Verifier) Ensure(ctx context.Context, profile target.Profile) (Outcome, error) {
	has, err := v.store.HasRecord(ctx, profile.KeyLabel)
	if err != nil {
		return OutcomeTrusted, fmt.Errorf("trust store lookup for %q: %w", profile.KeyLabel, err)
	}
	if !has {
		// First contact: trust-on-first-use happens at the transport layer.
		log.Debug("no trusted record, skipping probe", "label", profile.KeyLabel)
		return OutcomeTrusted, nil
	}

	result, detail, err := v.store.Probe(ctx, profile)
	if err != nil {
		return OutcomeTrusted, err
	}

	switch result {
	case ProbeTrusted:
		return OutcomeTrusted, nil

	case ProbeNetworkError:
		if detail != "" {
			ui.PrintError("Could not reach %s: %s", profile.Destination(), detail)
		}
		return OutcomeTrusted, fmt.Errorf("%w: %s is unreachable", ErrConnection, profile.Destination())

	case ProbeAuthMismatch:
		return v.handleSuspectedRotation(ctx, profile, detail)

	default:
		return OutcomeTrusted, fmt.Errorf("unexpected probe result %v", result)
	}
}

// handleSuspectedRotation drives the operator-confirmed rotation workflow.
func (v *Verifier) handleSuspectedRotation(ctx context.Context, profile target.Profile, detail string) (Outcome, error) {
	ui.PrintWarning("Host identity for %s no longer matches the trusted record.", profile.Destination())
	if detail != "" {
		ui.PrintDim("%s", detail)
	}
	ui.PrintInfo("This is expected if the endpoint was rebuilt; otherwise it could be an attack.")

	rebuilt, err := v.confirmer.Confirm(fmt.Sprintf("Was %q rebuilt?", profile.Name), false)
	if err != nil {
		return OutcomeTrusted, fmt.Errorf("rotation confirmation: %w", err)
	}

	if !rebuilt {
		// Deliberate operator escape hatch: proceed anyway, but only with a
		// loud warning and never as the default. The trust store is left
		// untouched.
		ui.PrintSecurityBanner(
			"PROCEEDING WITHOUT HOST IDENTITY VERIFICATION",
			fmt.Sprintf("Host key checking is disabled for this connection to %s.", profile.Destination()),
			"The stored fingerprint was NOT updated.",
		)
		return OutcomePermissive, nil
	}

	if err := v.store.Delete(ctx, profile.KeyLabel); err != nil {
		return OutcomeTrusted, fmt.Errorf("removing stale record %q: %w", profile.KeyLabel, err)
	}
	log.Debug("stale record removed", "label", profile.KeyLabel)

	// The fresh fingerprint is recorded only by a fully successful
	// connection; a failure here leaves no unverified record behind.
	if err := v.store.InstallFresh(ctx, profile); err != nil {
		return OutcomeTrusted, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	ui.PrintSuccess("Recorded the new host identity for %s.", profile.Destination())
	return OutcomeTrusted, nil
}
