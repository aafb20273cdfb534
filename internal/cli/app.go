// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/backend"
	"github.com/jeranaias/sopchat/internal/config"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/logging"
	"github.com/jeranaias/sopchat/internal/storage"
)

// =============================================================================
// APPLICATION CONTEXT
// =============================================================================

// app bundles what every command loads first: configuration, the logger and
// the localized printer. Stores are opened on demand.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	printer *locale.Printer

	closers []func() error
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Locale != "" {
		cfg.UI.Locale = opts.Locale
	}
	if opts.Theme != "" {
		cfg.UI.Theme = opts.Theme
	}
	return cfg, nil
}

// openApp loads configuration and logging. Logs go to the configured file;
// stderr only sees them when no file is set.
func openApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Pretty: cfg.Log.Pretty,
	}, stderr)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		log:     log,
		printer: locale.New(cfg.UI.Locale),
		closers: []func() error{closeLog},
	}
	a.log.Debug().Str("locale", a.printer.Tag().String()).Msg("app ready")
	return a, nil
}

// openStore opens the history store. backendName overrides the configured
// backend when set.
func (a *app) openStore(backendName string) (*storage.Store, error) {
	opts := storage.Options{Backend: a.cfg.Storage.Backend, Path: a.cfg.Storage.Path}
	if backendName != "" {
		opts.Backend = backendName
	}
	kv, err := storage.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open history")
	}
	store := storage.NewStore(kv, a.cfg.Storage.Key, a.log)
	a.closers = append(a.closers, store.Close)
	return store, nil
}

func (a *app) backendClient() *backend.Client {
	return backend.NewClientWithConfig(&backend.ClientConfig{
		URL:     a.cfg.Backend.URL,
		Timeout: a.cfg.Backend.Timeout,
		Logger:  a.log,
	})
}

func (a *app) verifier() *attachment.HTTPVerifier {
	return attachment.NewHTTPVerifier(attachment.VerifierConfig{
		Timeout: a.cfg.Attachments.ProbeTimeout,
		Rate:    a.cfg.Attachments.ProbeRate,
		Burst:   a.cfg.Attachments.ProbeBurst,
		Logger:  a.log,
	})
}

// Close releases stores first, then the log file.
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
