package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferro-labs/avatars-external/providers"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the registered provider types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Registered provider types:")
			for _, name := range providers.RegisteredTypes() {
				fmt.Fprintf(out, "  %s\n", name)
			}
		},
	}
}
