// Package main provides the doctor command for CLI diagnostics.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hopon-cli/hopon/internal/secrets"
	"github.com/hopon-cli/hopon/internal/target"
	"github.com/hopon-cli/hopon/internal/ui"
)

// DoctorCheck represents a single diagnostic check result.
type DoctorCheck struct {
	// Name is the check name (e.g., "ssh", "Targets file").
	Name string `json:"name"`

	// Status is the check status: "ok", "warning", "error".
	Status string `json:"status"`

	// Message is the human-readable result message.
	Message string `json:"message"`
}

// DoctorResult contains all diagnostic check results.
type DoctorResult struct {
	// Checks contains all individual check results.
	Checks []DoctorCheck `json:"checks"`

	// Issues is the count of checks with status "error" or "warning".
	Issues int `json:"issues"`

	// Healthy is true if no errors were found.
	Healthy bool `json:"healthy"`
}

var doctorOutputJSON bool

// doctorCmd runs diagnostic checks on the local environment.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check local prerequisites for launching sessions",
	Long: `Run diagnostic checks on the local environment.

CHECKS PERFORMED:
  - ssh and ssh-keygen on PATH (required)
  - mosh on PATH (optional, enables roaming-tolerant sessions)
  - known_hosts readability
  - targets and secrets files parse cleanly

OUTPUT:
  Human-readable by default, JSON with --json flag.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorOutputJSON, "json", false, "Output results as JSON")
}

// runDoctor executes all diagnostic checks.
func runDoctor(cmd *cobra.Command, args []string) error {
	result := DoctorResult{}

	addBinaryCheck := func(name string, required bool, hint string) {
		if _, err := exec.LookPath(name); err == nil {
			result.Checks = append(result.Checks, DoctorCheck{Name: name, Status: "ok", Message: "found on PATH"})
			return
		}
		status := "warning"
		if required {
			status = "error"
		}
		result.Checks = append(result.Checks, DoctorCheck{Name: name, Status: status, Message: hint})
	}

	addBinaryCheck("ssh", true, "not found; install an OpenSSH client")
	addBinaryCheck("ssh-keygen", true, "not found; install an OpenSSH client")
	addBinaryCheck("mosh", false, "not found; sessions will not survive network changes (https://mosh.org/#getting)")

	result.Checks = append(result.Checks, checkKnownHosts())
	result.Checks = append(result.Checks, checkTargetsFile())
	result.Checks = append(result.Checks, checkSecretsFile())

	for _, c := range result.Checks {
		if c.Status != "ok" {
			result.Issues++
		}
	}
	result.Healthy = !hasStatus(result.Checks, "error")

	if doctorOutputJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, c := range result.Checks {
		switch c.Status {
		case "ok":
			ui.PrintSuccess("%s: %s", c.Name, c.Message)
		case "warning":
			ui.PrintWarning("%s: %s", c.Name, c.Message)
		default:
			ui.PrintError("%s: %s", c.Name, c.Message)
		}
	}
	ui.Println()
	if result.Healthy {
		ui.PrintSuccess("Ready to launch.")
	} else {
		ui.PrintError("%d issue(s) found.", result.Issues)
		return &exitStatusError{code: 1}
	}
	return nil
}

// checkKnownHosts verifies the trust store file is readable when present.
func checkKnownHosts() DoctorCheck {
	home, err := os.UserHomeDir()
	if err != nil {
		return DoctorCheck{Name: "known_hosts", Status: "warning", Message: "cannot determine home directory"}
	}
	path := filepath.Join(home, ".ssh", "known_hosts")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DoctorCheck{Name: "known_hosts", Status: "ok", Message: "absent (first contact will create it)"}
		}
		return DoctorCheck{Name: "known_hosts", Status: "error", Message: fmt.Sprintf("unreadable: %v", err)}
	}
	return DoctorCheck{Name: "known_hosts", Status: "ok", Message: "readable"}
}

// checkTargetsFile verifies the optional targets file parses.
func checkTargetsFile() DoctorCheck {
	path, err := target.DefaultFilePath()
	if err != nil {
		return DoctorCheck{Name: "Targets file", Status: "warning", Message: "cannot determine home directory"}
	}
	f, err := target.LoadFile(path)
	if err != nil {
		return DoctorCheck{Name: "Targets file", Status: "error", Message: err.Error()}
	}
	if f == nil {
		return DoctorCheck{Name: "Targets file", Status: "ok", Message: "absent (using built-in targets)"}
	}
	return DoctorCheck{Name: "Targets file", Status: "ok", Message: fmt.Sprintf("%d target(s) defined", len(f.Targets))}
}

// checkSecretsFile verifies the optional secrets file parses. Values are
// never included in the output.
func checkSecretsFile() DoctorCheck {
	path, err := secrets.DefaultFilePath()
	if err != nil {
		return DoctorCheck{Name: "Secrets file", Status: "warning", Message: "cannot determine home directory"}
	}
	env, err := secrets.Forwarded(path)
	if err != nil {
		return DoctorCheck{Name: "Secrets file", Status: "error", Message: err.Error()}
	}
	if len(env) == 0 {
		return DoctorCheck{Name: "Secrets file", Status: "ok", Message: "no secrets to forward"}
	}
	return DoctorCheck{Name: "Secrets file", Status: "ok", Message: fmt.Sprintf("%d secret(s) will be forwarded", len(env))}
}

// hasStatus reports whether any check has the given status.
func hasStatus(checks []DoctorCheck, status string) bool {
	for _, c := range checks {
		if c.Status == status {
			return true
		}
	}
	return false
}
