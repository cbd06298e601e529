// Package launcher wires target resolution, identity verification, transport
// selection, and session continuity into one launch operation.
//
// Launch is single-flight by design: one connection attempt at a time, one
// identity probe at a time, then the terminal belongs to the remote session
// for the rest of the invocation.
package launcher

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/hopon-cli/hopon/internal/secrets"
	"github.com/hopon-cli/hopon/internal/session"
	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/transport"
	"github.com/hopon-cli/hopon/internal/trust"
	"github.com/hopon-cli/hopon/internal/ui"
)

// verifier is the identity verification step.
type verifier interface {
	Ensure(ctx context.Context, profile target.Profile) (trust.Outcome, error)
}

// sessionRunner drives the remote session for one endpoint.
type sessionRunner interface {
	Run(ctx context.Context) (int, error)
}

// Launcher performs the end-to-end launch for one named target.
type Launcher struct {
	resolver    *target.Resolver
	verifier    verifier
	secretsFile string

	// selectTransport and newSession are swapped in tests.
	selectTransport func(transport.Options) (transport.Strategy, *transport.SSH)
	newSession      func(profile target.Profile, strategy transport.Strategy, execer *transport.SSH, env map[string]string) sessionRunner
}

// New builds the production launcher.
//
// Parameters:
//   - resolver: The target resolver
//   - store: The trust store
//   - confirmer: The operator confirmation gate
//   - secretsFile: Path to the optional secrets file ("" to skip)
//
// Returns:
//   - *Launcher: The launcher
func New(resolver *target.Resolver, store trust.Store, confirmer ui.Confirmer, secretsFile string) *Launcher {
	return &Launcher{
		resolver:        resolver,
		verifier:        trust.NewVerifier(store, confirmer),
		secretsFile:     secretsFile,
		selectTransport: transport.Select,
		newSession: func(profile target.Profile, strategy transport.Strategy, execer *transport.SSH, env map[string]string) sessionRunner {
			host := session.NewTmuxHost(profile, strategy, execer)
			assistant := session.NewClaudeAssistant(profile, execer, env)
			return session.NewDriver(host, assistant, confirmer)
		},
	}
}

// Launch resolves the target, verifies its identity, and hands the terminal
// to the remote session, returning its exit status unchanged.
//
// Parameters:
//   - ctx: Context for the non-interactive phases
//   - targetName: The target name ("" selects the default)
//
// Returns:
//   - int: The exit status to propagate
//   - error: InvalidTarget, fatal connection errors, or session failures
func (l *Launcher) Launch(ctx context.Context, targetName string) (int, error) {
	profile, err := l.resolver.Resolve(targetName)
	if err != nil {
		return 2, err
	}
	log.Debug("target resolved", "name", profile.Name, "destination", profile.Destination(), "port", profile.Port)

	outcome, err := l.verifier.Ensure(ctx, profile)
	if err != nil {
		return 1, err
	}

	env, err := secrets.Forwarded(l.secretsFile)
	if err != nil {
		return 1, err
	}

	strategy, execer := l.selectTransport(transport.Options{
		Permissive: outcome == trust.OutcomePermissive,
	})

	return l.newSession(profile, strategy, execer, env).Run(ctx)
}
