// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/sopchat/internal/devserver"
)

// newDevServerCmd runs the fake backend until interrupted.
func newDevServerCmd(root *rootOptions) *cobra.Command {
	var opts struct {
		Addr     string
		Fixtures string
		FilesDir string
		BaseURL  string
	}

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local fake backend with canned replies and files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.cfg.DevServer
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.Addr
			}
			if cmd.Flags().Changed("fixtures") {
				cfg.Fixtures = opts.Fixtures
			}
			if cmd.Flags().Changed("files") {
				cfg.FilesDir = opts.FilesDir
			}

			fixtures, err := devserver.LoadFixtures(cfg.Fixtures)
			if err != nil {
				return err
			}
			srv := devserver.New(devserver.Config{
				Addr:     cfg.Addr,
				FilesDir: cfg.FilesDir,
				Fixtures: fixtures,
				BaseURL:  opts.BaseURL,
				Logger:   a.log,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			fmt.Fprintf(cmd.OutOrStdout(), "devserver listening on http://%s (chat: /chat, files: /files/, metrics: /metrics)\n", cfg.Addr)

			select {
			case err := <-errCh:
				return errors.Wrap(err, "devserver")
			case <-ctx.Done():
			}
			a.log.Info().Msg("devserver stopping")
			if err := srv.Shutdown(); err != nil {
				return errors.Wrap(err, "devserver shutdown")
			}
			return <-errCh
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Addr, "addr", "", "listen address (default from config)")
	flags.StringVar(&opts.Fixtures, "fixtures", "", "YAML fixtures file (default from config)")
	flags.StringVar(&opts.FilesDir, "files", "", "directory served under /files/ (default from config)")
	flags.StringVar(&opts.BaseURL, "base-url", "", "prefix for generated file links (default http://ADDR)")
	return cmd
}
