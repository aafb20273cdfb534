// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/sopchat/internal/export"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/util"
)

// =============================================================================
// HISTORY COMMANDS
// =============================================================================

func newHistoryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect, clear or export the saved conversation",
	}
	cmd.AddCommand(
		newHistoryShowCmd(root),
		newHistoryClearCmd(root),
		newHistoryExportCmd(root),
	)
	return cmd
}

func newHistoryShowCmd(root *rootOptions) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.openStore("")
			if err != nil {
				return err
			}
			msgs := store.Restore()
			out := cmd.OutOrStdout()

			if opts.JSON {
				data, err := store.Snapshot()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			for i, m := range msgs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "[%s] %s\n", m.Timestamp.Local().Format(time.DateTime), roleName(a.printer, m.Role))
				fmt.Fprintln(out, m.Content)
				if m.Metadata != nil {
					for _, f := range m.Metadata.Files {
						fmt.Fprintf(out, "  - %s (%s) %s\n", f.Name, f.TypeLabel(), f.URL)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the stored snapshot as JSON")
	return cmd
}

func newHistoryClearCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.openStore("")
			if err != nil {
				return err
			}
			store.Restore()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.printer.T(locale.HistoryCleared))
			return nil
		},
	}
}

func newHistoryExportCmd(root *rootOptions) *cobra.Command {
	var opts struct {
		Format       string
		OutputDir    string
		Title        string
		NoTimestamps bool
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved conversation to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.openStore("")
			if err != nil {
				return err
			}

			exportOpts := &export.Options{
				OutputDir:         opts.OutputDir,
				IncludeTimestamps: !opts.NoTimestamps,
				Theme:             exportTheme(a.cfg.UI.Theme),
				Printer:           a.printer,
			}
			exporter, err := export.ForFormat(opts.Format, exportOpts)
			if err != nil {
				return err
			}
			msgs := store.Restore()
			title := opts.Title
			if title == "" {
				title = defaultTitle(msgs)
			}
			path, err := export.ExportToFile(&export.Transcript{
				Title:    title,
				Messages: msgs,
				Exported: time.Now(),
			}, exporter, exportOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Format, "format", "f", "html", "output format: "+strings.Join(export.Formats, ", "))
	flags.StringVarP(&opts.OutputDir, "out", "o", ".", "output directory")
	flags.StringVar(&opts.Title, "title", "", "document title (default: the first question)")
	flags.BoolVar(&opts.NoTimestamps, "no-timestamps", false, "leave message times out")
	return cmd
}

// defaultTitle names an export after the first question asked.
func defaultTitle(msgs []model.Message) string {
	for _, m := range msgs {
		if m.Role == model.RoleUser {
			if line := util.FirstLine(m.Content); line != "" {
				return line
			}
		}
	}
	return "SOP chat"
}

func roleName(p *locale.Printer, role model.Role) string {
	if role == model.RoleUser {
		return p.T(locale.RoleUser)
	}
	return p.T(locale.RoleAssistant)
}

// exportTheme maps the UI theme onto the two page themes.
func exportTheme(ui string) string {
	if ui == "dark" {
		return "dark"
	}
	return "light"
}
