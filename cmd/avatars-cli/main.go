// Package main provides avatars-cli, a command-line tool to validate avatar
// configuration files and resolve avatar URLs offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferro-labs/avatars-external/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "avatars-cli",
		Short:        "Validate avatar configuration and resolve avatar URLs",
		SilenceUsage: true,
	}
	root.AddCommand(
		newValidateCmd(),
		newResolveCmd(),
		newProvidersCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "avatars-cli %s\n", version.String())
		},
	}
}
