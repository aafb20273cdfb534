// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/sopchat/internal/guard"
	"github.com/jeranaias/sopchat/internal/input"
	"github.com/jeranaias/sopchat/internal/ui/chat"
	"github.com/jeranaias/sopchat/internal/ui/styles"
	"github.com/jeranaias/sopchat/internal/viewer"
	"github.com/jeranaias/sopchat/internal/widget"
)

// buildChat wires the widget stack into a chat model. The viewer and the
// guard share one application input bus so the guard sees every key while a
// viewer is open.
func buildChat(a *app) (chat.Model, error) {
	store, err := a.openStore("")
	if err != nil {
		return chat.Model{}, err
	}

	bus := input.NewBus()
	g := guard.New(a.cfg.Guard.WarningDuration, a.cfg.Guard.ExtraTriggerKeys, a.log)
	v := viewer.New(viewer.Config{
		Fetcher: viewer.NewHTTPFetcher(a.cfg.Viewer.FetchTimeout, a.cfg.Viewer.MaxBytes),
		Guard:   g,
		App:     bus,
		Printer: a.printer,
		Logger:  a.log,
	})
	state := widget.New(widget.Config{
		Store:   store,
		Viewer:  v,
		Printer: a.printer,
		Welcome: a.cfg.UI.Welcome,
		Logger:  a.log,
	})

	return chat.New(chat.Config{
		State:    state,
		Backend:  a.backendClient(),
		Verifier: a.verifier(),
		Theme:    styles.NewTheme(a.cfg.UI.Theme),
		Logger:   a.log,
	}), nil
}

// runTUI runs the chat screen until the user quits or ctx ends.
func runTUI(ctx context.Context, a *app) error {
	m, err := buildChat(a)
	if err != nil {
		return err
	}

	a.log.Info().Str("backend", a.cfg.Backend.URL).Str("storage", a.cfg.Storage.Backend).Msg("starting chat")
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run chat")
	}
	return nil
}
