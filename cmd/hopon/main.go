// Package main provides the entry point for the hopon CLI.
//
// hopon is a remote-session launcher: it connects to a named endpoint,
// verifies the endpoint's host identity, and attaches to (or creates) the
// persistent assistant session running there.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hopon-cli/hopon/internal/launcher"
	"github.com/hopon-cli/hopon/internal/secrets"
	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/trust"
	"github.com/hopon-cli/hopon/internal/ui"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitStatusError carries a remote exit status through cobra unchanged.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootCmd launches a session on the named target.
var rootCmd = &cobra.Command{
	Use:   "hopon [target]",
	Short: "Hop onto your persistent remote assistant session",
	Long: `hopon connects to a named endpoint, verifies its host identity, and
attaches to the persistent assistant session running there - creating the
session and resuming your last conversation when needed.

With no argument the default target is used. Run "hopon targets" to list
the available targets.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled")
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		ui.SetQuietMode(quiet)
	},
	RunE: runLaunch,
}

// runLaunch executes the launch flow for the selected target.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: At most one positional target name
//
// Returns:
//   - error: An exitStatusError carrying the status to propagate
func runLaunch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	l, err := buildLauncher()
	if err != nil {
		return err
	}

	code, err := l.Launch(ctx, name)
	if err != nil {
		if errors.Is(err, target.ErrUnknownTarget) {
			ui.PrintError("%v", err)
			_ = cmd.Usage()
			return &exitStatusError{code: code}
		}
		ui.PrintError("%v", err)
		return &exitStatusError{code: code}
	}
	if code != 0 {
		return &exitStatusError{code: code}
	}
	return nil
}

// buildLauncher wires the production launcher.
//
// Returns:
//   - *launcher.Launcher: The launcher
//   - error: If local configuration could not be read
func buildLauncher() (*launcher.Launcher, error) {
	resolver, err := loadResolver()
	if err != nil {
		return nil, err
	}

	secretsPath, err := secrets.DefaultFilePath()
	if err != nil {
		secretsPath = ""
	}

	return launcher.New(resolver, trust.NewKnownHostsStore(), ui.TerminalConfirmer{}, secretsPath), nil
}

// loadResolver builds the target resolver with any file overrides applied.
//
// Returns:
//   - *target.Resolver: The resolver
//   - error: If the targets file exists but is invalid
func loadResolver() (*target.Resolver, error) {
	path, err := target.DefaultFilePath()
	if err != nil {
		return target.NewResolver(nil), nil
	}
	overrides, err := target.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return target.NewResolver(overrides), nil
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintInfo("Version: %s", version)
		ui.PrintInfo("Commit: %s", commit)
		ui.PrintInfo("Built: %s", date)
	},
}

// Execute runs the root command and maps failures to process exit codes.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}
	var exitErr *exitStatusError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}
	ui.PrintError("%v", err)
	os.Exit(1)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	Execute()
}
