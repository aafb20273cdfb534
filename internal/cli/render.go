// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/ui/components"
	"github.com/jeranaias/sopchat/internal/ui/styles"
)

// newRenderCmd converts markdown on stdin to display markup. It needs no
// config or store.
func newRenderCmd(root *rootOptions) *cobra.Command {
	var opts struct {
		Terminal bool
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render markdown from stdin",
		Long:  "Render markdown from stdin to the display markup the chat uses, or paint it for the terminal with --terminal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			out := cmd.OutOrStdout()
			markup := markdown.Render(string(data))
			if !opts.Terminal {
				fmt.Fprintln(out, markup)
				return nil
			}

			lipgloss.SetColorProfile(ColorProfile(out))
			theme := root.Theme
			if theme == "" {
				theme = "auto"
			}
			fmt.Fprintln(out, components.PaintMarkup(markup, styles.NewTheme(theme)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Terminal, "terminal", "t", false, "paint for the terminal instead of printing markup")
	return cmd
}
