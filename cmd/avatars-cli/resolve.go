package main

import (
	"fmt"

	"github.com/spf13/cobra"

	avatars "github.com/ferro-labs/avatars-external"
	"github.com/ferro-labs/avatars-external/providers"
)

type resolveOptions struct {
	config string
	user   providers.User
	size   int
}

func newResolveCmd() *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the avatar and change-avatar URLs for an identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.size < 0 {
				return fmt.Errorf("--size must not be negative")
			}
			cfg, err := avatars.LoadConfig(opts.config)
			if err != nil {
				return err
			}
			if err := avatars.ValidateConfig(*cfg); err != nil {
				return fmt.Errorf("validation error: %w", err)
			}
			res, err := avatars.New(*cfg)
			if err != nil {
				return err
			}
			if err := res.LoadProviders(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			avatarURL, ok := res.AvatarURL(cmd.Context(), opts.user, opts.size)
			if !ok {
				avatarURL = "(none)"
				if def := res.DefaultAvatarURL(); def != "" {
					avatarURL = def + " (default)"
				}
			}
			changeURL, ok := res.ChangeAvatarURL(cmd.Context(), opts.user)
			if !ok {
				changeURL = "(none)"
			}
			fmt.Fprintf(out, "avatar: %s\n", avatarURL)
			fmt.Fprintf(out, "change: %s\n", changeURL)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "configuration file (JSON/YAML)")
	f.StringVar(&opts.user.Username, "user", "", "username")
	f.StringVar(&opts.user.PreferredEmail, "email", "", "preferred email address")
	f.IntVar(&opts.user.AccountID, "id", 0, "numeric account id")
	f.IntVar(&opts.size, "size", 0, "image size in pixels, 0 for none")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
