// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/backend"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/storage"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

type askOptions struct {
	Raw    bool
	Verify bool
}

// newAskCmd sends one question and prints the reply. Nothing is persisted.
func newAskCmd(root *rootOptions) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the answer",
		Long:  "Ask one question and print the answer. With no argument the question is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "read question")
				}
				question = strings.TrimSpace(string(data))
			}
			if question == "" {
				return errors.New("no question given")
			}

			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			return runAsk(cmd.Context(), a, question, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print the reply without terminal formatting")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "check that attached files are reachable")
	return cmd
}

func runAsk(ctx context.Context, a *app, question string, opts askOptions, out io.Writer) error {
	store, err := a.openStore(storage.BackendMemory)
	if err != nil {
		return err
	}
	if _, err := store.Append(model.RoleUser, question, nil); err != nil {
		return err
	}

	reply, err := a.backendClient().Complete(ctx, store.Messages())
	if err != nil {
		if status, ok := backend.IsStatus(err); ok {
			return errors.New(a.printer.T(locale.UnexpectedStatus, status))
		}
		return errors.Wrap(err, "ask")
	}

	content := reply.Content
	if !opts.Raw && IsTerminal(out) {
		content = renderMarkdown(content, TerminalWidth(out))
	}
	fmt.Fprintln(out, strings.TrimRight(content, "\n"))

	if reply.Metadata == nil || len(reply.Metadata.Files) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\n%s\n", a.printer.T(locale.FilesHeader))
	var verifier attachment.Verifier
	if opts.Verify {
		verifier = a.verifier()
	}
	for _, f := range reply.Metadata.Files {
		label := f.TypeLabel()
		if verifier != nil {
			res := verifier.Verify(ctx, f.URL)
			p := attachment.Present(a.printer, res.State, f)
			label = p.Icon + " " + p.Label
			if size := attachment.SizeLabel(res.Size); size != "" {
				label += ", " + size
			}
		}
		fmt.Fprintf(out, "- %s (%s) %s\n", f.Name, label, f.URL)
	}
	return nil
}

// renderMarkdown formats a reply for the terminal with glamour. The original
// text is returned when the renderer cannot be built.
func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
