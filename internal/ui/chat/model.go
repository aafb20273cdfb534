// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/backend"
	"github.com/jeranaias/sopchat/internal/input"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/ui/components"
	"github.com/jeranaias/sopchat/internal/ui/styles"
	"github.com/jeranaias/sopchat/internal/widget"
)

// =============================================================================
// MODEL
// =============================================================================

// Config wires a Model.
type Config struct {
	State    *widget.State
	Backend  backend.Completer
	Verifier attachment.Verifier
	Theme    *styles.Theme
	Logger   zerolog.Logger
	// Clipboard writes copied code; defaults to the system clipboard.
	Clipboard func(string) error
}

// Model is the chat screen.
type Model struct {
	state     *widget.State
	backend   backend.Completer
	verifier  attachment.Verifier
	theme     *styles.Theme
	printer   *locale.Printer
	log       zerolog.Logger
	clipboard func(string) error

	keyMap     KeyMap
	input      textinput.Model
	viewport   viewport.Model
	viewerBody viewport.Model
	spinner    spinner.Model

	width  int
	height int

	focus components.Focus
	toast *components.Toast

	// copyMsg and copyNext cycle ctrl+y through the code blocks of the
	// newest message that has any.
	copyMsg  int
	copyNext int
}

// New builds the model. History is restored when the program starts.
func New(cfg Config) Model {
	if cfg.Theme == nil {
		cfg.Theme = styles.NewTheme("auto")
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}
	p := cfg.State.Printer()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = p.T(locale.InitInProgress)
	ti.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return Model{
		state:      cfg.State,
		backend:    cfg.Backend,
		verifier:   cfg.Verifier,
		theme:      cfg.Theme,
		printer:    p,
		log:        cfg.Logger.With().Str("component", "chat").Logger(),
		clipboard:  cfg.Clipboard,
		keyMap:     DefaultKeyMap(),
		input:      ti,
		viewport:   viewport.New(80, 20),
		viewerBody: viewport.New(60, 10),
		spinner:    sp,
		copyMsg:    -1,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts history restore.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, initCmd())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case initMsg:
		return m.handleInit()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case ProbeResultMsg:
		if m.state.SettleCard(msg.Epoch, msg.Message, msg.Card, msg.Result) {
			m.rebuild(false)
		}
		return m, nil

	case ViewerLoadedMsg:
		if m.state.ResolveViewer(msg.Result) {
			m.refreshViewer()
		}
		return m, nil

	case GuardExpiredMsg:
		m.state.Viewer().Guard().Expire(msg.Seq)
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Int("block", msg.N).Msg("clipboard write failed")
			return m, m.showToast(components.ToastError, m.printer.T(locale.CopyFailed, msg.Err.Error()))
		}
		return m, m.showToast(components.ToastSuccess, m.printer.T(locale.Copied)+" ("+msg.Label+")")

	case components.ToastExpiredMsg:
		if m.toast != nil && m.toast.ID == msg.ID {
			m.toast = nil
		}
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the screen.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header + input box + status line
	const (
		headerHeight    = 1
		inputAreaHeight = 3
		statusBarHeight = 1
	)
	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(m.height-headerHeight-inputAreaHeight-statusBarHeight, 1)
	m.input.Width = max(m.width-8-submitWidth, 10)

	w, h := components.OverlayBodySize(m.width, m.height)
	m.viewerBody.Width = w
	m.viewerBody.Height = h

	if m.state.Ready() {
		m.rebuild(true)
	}
	return m, nil
}

func (m Model) handleInit() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if err := m.state.Init(); err != nil {
		m.log.Warn().Err(err).Msg("welcome message not persisted")
		cmds = append(cmds, m.showToast(components.ToastError, m.printer.T(locale.PersistFailed, err.Error())))
	}
	m.input.Placeholder = m.printer.T(locale.Placeholder)
	m.input.Focus()
	m.rebuild(true)
	cmds = append(cmds, probeCmds(m.verifier, m.state.TakeProbes())...)
	return m, tea.Batch(cmds...)
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.state.SetLoading(false)

	var err error
	if msg.Err != nil {
		m.log.Warn().Err(msg.Err).Msg("backend request failed")
		_, err = m.state.AppendBackendError()
	} else {
		_, err = m.state.AppendAssistant(msg.Reply.Content, msg.Reply.Metadata)
	}

	var cmds []tea.Cmd
	if err != nil {
		cmds = append(cmds, m.showToast(components.ToastError, m.printer.T(locale.PersistFailed, err.Error())))
	}
	m.rebuild(true)
	cmds = append(cmds, probeCmds(m.verifier, m.state.TakeProbes())...)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Viewer().App().Dispatch(keyEvent(msg)) {
		return m, m.guardCmd()
	}

	if key.Matches(msg, m.keyMap.Quit) {
		m.state.CloseViewer()
		return m, tea.Quit
	}
	if m.state.Viewer().Current() != nil {
		return m.handleViewerKey(msg)
	}
	if m.focus.Active {
		return m.handleCardKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.keyMap.NextCard):
		return m.enterCards(false)
	case key.Matches(msg, m.keyMap.PrevCard):
		return m.enterCards(true)
	case key.Matches(msg, m.keyMap.Copy):
		return m, m.copyCode()
	case key.Matches(msg, m.keyMap.Clear):
		return m.clearHistory()
	case key.Matches(msg, m.keyMap.PageUp, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.state.Ready() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Close) {
		m.state.CloseViewer()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewerBody, cmd = m.viewerBody.Update(msg)
	return m, cmd
}

func (m Model) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Leave):
		m.focus = components.Focus{}
		m.input.Focus()
		m.rebuild(false)
		return m, nil
	case key.Matches(msg, m.keyMap.NextCard, m.keyMap.CardRight):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keyMap.PrevCard, m.keyMap.CardLeft):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keyMap.Submit):
		return m.openFocused()
	}
	return m, nil
}

// keyEvent translates a key press for the input bus.
func keyEvent(msg tea.KeyMsg) input.Event {
	s := msg.String()
	shift := strings.Contains(s, "shift+")
	if len(msg.Runes) == 1 && unicode.IsUpper(msg.Runes[0]) {
		shift = true
	}
	return input.Event{
		Kind:  input.KindKey,
		Key:   s,
		Ctrl:  strings.HasPrefix(s, "ctrl+"),
		Alt:   msg.Alt,
		Shift: shift,
	}
}

// =============================================================================
// MOUSE
// =============================================================================

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	h := m.state.Viewer().Current()
	if h == nil {
		switch msg.Type {
		case tea.MouseWheelUp:
			m.viewport.LineUp(3)
		case tea.MouseWheelDown:
			m.viewport.LineDown(3)
		}
		return m, nil
	}

	inside := components.OverlayRect(m.width, m.height).Contains(msg.X, msg.Y)
	switch msg.Type {
	case tea.MouseLeft:
		if !inside {
			m.state.CloseViewer()
		}
	case tea.MouseRight:
		if inside {
			h.Surface().Dispatch(input.Event{Kind: input.KindContextMenu})
			return m, m.guardCmd()
		}
	case tea.MouseWheelUp:
		m.viewerBody.LineUp(3)
	case tea.MouseWheelDown:
		m.viewerBody.LineDown(3)
	}
	return m, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if !m.state.CanSubmit(text) {
		return m, nil
	}

	var cmds []tea.Cmd
	if _, err := m.state.AppendUser(text); err != nil {
		if errors.Is(err, widget.ErrNotReady) {
			return m, nil
		}
		cmds = append(cmds, m.showToast(components.ToastError, m.printer.T(locale.PersistFailed, err.Error())))
	}
	m.input.Reset()
	m.state.SetLoading(true)
	m.rebuild(true)

	cmds = append(cmds, submitCmd(m.backend, m.state.Messages()), m.spinner.Tick)
	return m, tea.Batch(cmds...)
}

func (m Model) clearHistory() (tea.Model, tea.Cmd) {
	m.focus = components.Focus{}
	m.copyMsg, m.copyNext = -1, 0

	var cmds []tea.Cmd
	if err := m.state.ClearHistory(); err != nil {
		m.log.Warn().Err(err).Msg("clear history failed")
		cmds = append(cmds, m.showToast(components.ToastError, m.printer.T(locale.PersistFailed, err.Error())))
	} else {
		cmds = append(cmds, m.showToast(components.ToastStatus, m.printer.T(locale.HistoryCleared)))
	}
	m.rebuild(true)
	cmds = append(cmds, probeCmds(m.verifier, m.state.TakeProbes())...)
	return m, tea.Batch(cmds...)
}

// copyCode copies the next code block of the newest message holding any.
func (m *Model) copyCode() tea.Cmd {
	msgs := m.state.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		blocks := markdown.CodeBlocks(msgs[i].Content)
		if len(blocks) == 0 {
			continue
		}
		if m.copyMsg != i {
			m.copyMsg, m.copyNext = i, 0
		}
		n := m.copyNext % len(blocks)
		m.copyNext = n + 1
		return copyCmd(m.clipboard, n+1, blocks[n])
	}
	return nil
}

// =============================================================================
// CARD FOCUS
// =============================================================================

type cardRef struct {
	msg, card int
}

// cardRefs lists every card in transcript order.
func (m Model) cardRefs() []cardRef {
	galleries := m.state.Galleries()
	idx := make([]int, 0, len(galleries))
	for i := range galleries {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	var refs []cardRef
	for _, i := range idx {
		for c := 0; c < galleries[i].Len(); c++ {
			refs = append(refs, cardRef{msg: i, card: c})
		}
	}
	return refs
}

// enterCards focuses the first card of the newest gallery, or the very last
// card when last is set.
func (m Model) enterCards(last bool) (tea.Model, tea.Cmd) {
	refs := m.cardRefs()
	if len(refs) == 0 {
		return m, nil
	}
	target := refs[len(refs)-1]
	if !last {
		for _, r := range refs {
			if r.msg == target.msg {
				target = r
				break
			}
		}
	}
	m.focus = components.Focus{Active: true, Message: target.msg, Card: target.card}
	m.input.Blur()
	m.rebuild(false)
	return m, nil
}

func (m *Model) moveFocus(delta int) {
	refs := m.cardRefs()
	if len(refs) == 0 {
		m.focus = components.Focus{}
		return
	}
	pos := 0
	for i, r := range refs {
		if r.msg == m.focus.Message && r.card == m.focus.Card {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(refs)) % len(refs)
	m.focus.Message, m.focus.Card = refs[pos].msg, refs[pos].card
	m.rebuild(false)
}

func (m Model) openFocused() (tea.Model, tea.Cmd) {
	g := m.state.Gallery(m.focus.Message)
	if g == nil {
		return m, nil
	}
	card, ok := g.Card(m.focus.Card)
	if !ok {
		return m, nil
	}
	_, load := m.state.OpenViewer(card.File)
	m.refreshViewer()
	return m, viewerLoadCmd(load)
}

// =============================================================================
// HELPERS
// =============================================================================

// rebuild re-renders the whole transcript. scroll moves to the newest
// message.
func (m *Model) rebuild(scroll bool) {
	content := components.RenderMessages(m.state.Messages(), m.state.Galleries(), components.MessageOptions{
		Theme:   m.theme,
		Printer: m.printer,
		Width:   m.viewport.Width,
		Focus:   m.focus,
	})
	m.viewport.SetContent(content)
	if scroll {
		m.viewport.GotoBottom()
	}
}

func (m *Model) refreshViewer() {
	h := m.state.Viewer().Current()
	if h == nil {
		return
	}
	m.viewerBody.SetContent(components.ViewerContent(h, m.printer, m.theme))
	m.viewerBody.GotoTop()
}

// guardCmd schedules the warning expiry raised by the latest trigger.
func (m Model) guardCmd() tea.Cmd {
	if e, ok := m.state.Viewer().Guard().TakeExpiry(); ok {
		return guardExpiryCmd(e)
	}
	return nil
}

func (m *Model) showToast(kind components.ToastKind, text string) tea.Cmd {
	t := components.NewToast(kind, text)
	m.toast = &t
	return t.Dismiss()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Focus returns the focused card, if any.
func (m Model) Focus() components.Focus { return m.focus }

// InputValue returns the text being typed.
func (m Model) InputValue() string { return m.input.Value() }

// Toast returns the visible toast, or nil.
func (m Model) Toast() *components.Toast { return m.toast }
