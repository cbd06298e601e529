// Package main provides the targets command.
package main

import (
	"github.com/spf13/cobra"

	"github.com/hopon-cli/hopon/internal/ui"
)

// targetsCmd lists the resolvable targets.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List available targets",
	Long: `List the targets hopon can connect to.

The built-in set can be extended or overridden in
~/.config/hopon/targets.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := loadResolver()
		if err != nil {
			return err
		}

		def := resolver.DefaultTarget()
		for _, name := range resolver.Names() {
			profile, err := resolver.Resolve(name)
			if err != nil {
				continue
			}
			marker := " "
			if name == def {
				marker = ui.AccentStyle.Render("*")
			}
			ui.PrintInfo("%s %-10s %s (port %d)", marker, name, profile.Destination(), profile.Port)
		}
		ui.PrintDim("* default target")
		return nil
	},
}
