// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath string
	Locale     string
	Theme      string
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	cobra.CheckErr(NewRootCmd().Execute())
}

// NewRootCmd builds the command tree. Without a subcommand it starts the
// chat TUI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sopchat",
		Short:         "Terminal client for the SOP assistant",
		Long:          "Chat with the SOP assistant, open the documents it cites and keep a local history.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			return runTUI(cmd.Context(), a)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ~/.sopchat/config.toml)")
	flags.StringVar(&opts.Locale, "locale", "", "interface language: id or en")
	flags.StringVar(&opts.Theme, "theme", "", "color theme: auto, dark or light")

	cmd.AddCommand(
		newAskCmd(opts),
		newRenderCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(opts),
		newDevServerCmd(opts),
	)
	return cmd
}
