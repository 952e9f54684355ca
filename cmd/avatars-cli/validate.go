package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	avatars "github.com/ferro-labs/avatars-external"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file (JSON/YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := avatars.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if err := avatars.ValidateConfig(*cfg); err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			out := cmd.OutOrStdout()
			mode := cfg.Strategy.Mode
			if mode == "" {
				mode = avatars.ModeSingle
			}
			fmt.Fprintf(out, "✓ Config is valid\n")
			fmt.Fprintf(out, "  Strategy:  %s\n", mode)

			var names []string
			for _, p := range cfg.Providers {
				status := "disabled"
				if p.Enabled {
					status = "enabled"
				}
				names = append(names, fmt.Sprintf("%s (%s, %s)", p.Name, p.Type, status))
			}
			fmt.Fprintf(out, "  Providers: %s\n", strings.Join(names, ", "))

			driver := cfg.Accounts.Driver
			if driver == "" {
				driver = avatars.DriverMemory
			}
			fmt.Fprintf(out, "  Accounts:  %s\n", driver)

			for _, w := range avatars.ConfigWarnings(*cfg) {
				fmt.Fprintf(out, "  Warning:   %s\n", w)
			}
			return nil
		},
	}
}
