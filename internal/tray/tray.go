// Package tray hosts the quest menu in a terminal. It stands in for a
// system tray: a status bar shows the fitted active quest label, the menu
// is navigated with the keyboard and "Add New Quest" opens an input
// overlay managed by a [prompt.Controller].
package tray

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/calvinalkan/questbar/internal/clock"
	"github.com/calvinalkan/questbar/internal/menu"
	"github.com/calvinalkan/questbar/internal/prompt"
	"github.com/calvinalkan/questbar/internal/quest"
	"github.com/calvinalkan/questbar/internal/textfit"
)

const (
	separatorLine = "────────────"
	idleLabel     = "questbar"
	inputLimit    = 200
)

// Options configures a [Model].
type Options struct {
	Store     *quest.Store
	Fitter    textfit.Fitter
	Display   textfit.Display
	QuestFile string
	// Opener opens the quest file in an external viewer.
	Opener func(path string) error
	// Repaint is called when the prompt window changes outside Update.
	// [Notifier.Repaint] is the usual value.
	Repaint func()
	Logger  *log.Logger
	Clock   clock.Clock
}

// Model is the Bubble Tea model of the tray host. It implements
// [menu.Host] for the actions the store cannot handle itself.
type Model struct {
	store     *quest.Store
	fitter    textfit.Fitter
	display   textfit.Display
	questFile string
	opener    func(string) error
	repaint   func()
	logger    *log.Logger

	prompt *prompt.Controller
	win    *promptWindow
	input  textinput.Model

	entries []menu.Entry
	stack   []int
	cursor  int

	label   string
	tooltip string
	flash   string

	quitting bool
}

// New creates the model and projects the current store state.
func New(opts Options) *Model {
	if opts.Store == nil {
		panic("tray: nil store")
	}

	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	if opts.Repaint == nil {
		opts.Repaint = func() {}
	}

	input := textinput.New()
	input.Placeholder = "What quest awaits?"
	input.CharLimit = inputLimit
	input.Prompt = "› "

	m := &Model{
		store:     opts.Store,
		fitter:    opts.Fitter,
		display:   opts.Display,
		questFile: opts.QuestFile,
		opener:    opts.Opener,
		repaint:   opts.Repaint,
		logger:    opts.Logger,
		input:     input,
	}

	m.prompt = prompt.NewController(m.newWindow, opts.Store, prompt.Options{
		Clock:  opts.Clock,
		Logger: opts.Logger,
	})

	m.refresh(opts.Store.State())

	return m
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Label returns the fitted status label ("" when no quest is active).
func (m *Model) Label() string {
	return m.label
}

// Tooltip returns the full title of the active quest.
func (m *Model) Tooltip() string {
	return m.tooltip
}

// PromptState reports the state of the input overlay.
func (m *Model) PromptState() prompt.State {
	return m.prompt.State()
}

// ShowPrompt implements [menu.Host].
func (m *Model) ShowPrompt() {
	err := m.prompt.Show()
	if err != nil {
		m.logger.Error("showing prompt", "err", err)
		m.flash = err.Error()
	}
}

// OpenFile implements [menu.Host].
func (m *Model) OpenFile() error {
	if m.opener == nil {
		return ErrNoOpener
	}

	return m.opener(m.questFile)
}

// Shutdown releases the input overlay after the program has exited. The
// terminal is gone, so the window is forgotten rather than closed.
func (m *Model) Shutdown() {
	m.prompt.Closed()
	m.win = nil
	m.input.Blur()
}

// Quit implements [menu.Host].
func (m *Model) Quit() {
	m.quitting = true
}

// Update implements [tea.Model].
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		m.refresh(msg.State)

		return m, nil
	case repaintMsg:
		return m, nil
	case tea.BlurMsg:
		if m.prompt.Blur() {
			m.input.Blur()
		}

		return m, nil
	case tea.KeyMsg:
		if m.prompt.State() == prompt.Open {
			return m.updatePrompt(msg)
		}

		return m.updateMenu(msg)
	}

	return m, nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.prompt.Submit(m.input.Value())
		m.input.Blur()
		m.refresh(m.store.State())

		return m, nil
	case "esc", "ctrl+c":
		m.prompt.Cancel()
		m.input.Blur()

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true

		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "left", "h", "esc", "backspace":
		m.pop()
	case "right", "l", "enter", " ":
		return m.activate()
	case "a":
		// Shortcut for the first entry.
		return m.run(menu.Action{Kind: menu.ActionShowPrompt})
	}

	return m, nil
}

func (m *Model) activate() (tea.Model, tea.Cmd) {
	level := m.level()
	if m.cursor < 0 || m.cursor >= len(level) {
		return m, nil
	}

	entry := level[m.cursor]

	if entry.HasSubmenu() {
		m.stack = append(m.stack, m.cursor)
		m.cursor = firstSelectable(entry.Children)

		return m, nil
	}

	return m.run(entry.Action)
}

func (m *Model) run(a menu.Action) (tea.Model, tea.Cmd) {
	err := menu.Dispatch(m.store, m, a)
	if err != nil {
		m.logger.Error("menu action failed", "action", a.Kind, "err", err)
		m.flash = err.Error()
	}

	// Like a tray menu, selecting an item closes any open submenu.
	m.stack = nil
	m.refresh(m.store.State())

	if m.prompt.State() == prompt.Open {
		return m, m.input.Focus()
	}

	if m.quitting {
		return m, tea.Quit
	}

	return m, nil
}

// refresh re-projects the menu and the status label from st.
func (m *Model) refresh(st quest.State) {
	m.entries = menu.Project(st)

	if st.HasActive() {
		m.label = m.fitter.Fit(st.ActiveQuest, m.display)
		m.tooltip = st.ActiveQuest
	} else {
		m.label = ""
		m.tooltip = ""
	}

	// Indices into stale children are meaningless after a change.
	if !m.stackValid() {
		m.stack = nil
	}

	level := m.level()
	if m.cursor >= len(level) || m.cursor < 0 || level[m.cursor].IsSeparator() {
		m.cursor = firstSelectable(level)
	}
}

func (m *Model) stackValid() bool {
	entries := m.entries

	for _, i := range m.stack {
		if i >= len(entries) || !entries[i].HasSubmenu() {
			return false
		}

		entries = entries[i].Children
	}

	return true
}

func (m *Model) level() []menu.Entry {
	entries := m.entries

	for _, i := range m.stack {
		entries = entries[i].Children
	}

	return entries
}

func (m *Model) pop() {
	if len(m.stack) == 0 {
		return
	}

	m.cursor = m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
}

func (m *Model) move(delta int) {
	level := m.level()

	for i := m.cursor + delta; i >= 0 && i < len(level); i += delta {
		if !level[i].IsSeparator() {
			m.cursor = i

			return
		}
	}
}

func firstSelectable(entries []menu.Entry) int {
	for i, e := range entries {
		if !e.IsSeparator() {
			return i
		}
	}

	return 0
}

func (m *Model) newWindow() (prompt.Window, error) {
	m.input.Reset()
	m.win = newPromptWindow(m.repaint)

	return m.win, nil
}

// View implements [tea.Model].
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.label != "" {
		b.WriteString(statusStyle.Render(m.label))
		b.WriteString(" ")
		b.WriteString(tooltipStyle.Render(m.tooltip))
	} else {
		b.WriteString(statusIdleStyle.Render(idleLabel))
	}

	b.WriteString("\n\n")

	if crumbs := m.breadcrumbs(); crumbs != "" {
		b.WriteString(breadcrumbStyle.Render(crumbs))
		b.WriteString("\n")
	}

	for i, e := range m.level() {
		b.WriteString(m.renderEntry(e, i == m.cursor))
		b.WriteString("\n")
	}

	if m.prompt.State() == prompt.Open && m.win != nil && !m.win.IsClosed() {
		b.WriteString("\n")
		b.WriteString(m.renderPrompt())
		b.WriteString("\n")
	}

	if m.flash != "" {
		b.WriteString("\n")
		b.WriteString(flashStyle.Render("error: " + m.flash))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))

	return b.String()
}

func (m *Model) renderEntry(e menu.Entry, selected bool) string {
	if e.IsSeparator() {
		return separatorStyle.Render(separatorLine)
	}

	text := e.Label
	if e.HasSubmenu() {
		text += " ›"
	}

	switch {
	case selected:
		return selectedStyle.Render("▸" + text)
	case e.Highlight:
		return itemStyle.Inherit(highlightStyle).Render(text)
	case strings.HasPrefix(e.Label, menu.DonePrefix):
		return itemStyle.Inherit(doneStyle).Render(text)
	default:
		return itemStyle.Render(text)
	}
}

func (m *Model) renderPrompt() string {
	box := promptBoxStyle
	if m.win.Opacity() < 1 {
		box = promptFadeStyle
	}

	return box.Render(promptTitleStyle.Render(menu.LabelAddQuest) + "\n" + m.input.View())
}

func (m *Model) breadcrumbs() string {
	if len(m.stack) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.stack))
	entries := m.entries

	for _, i := range m.stack {
		parts = append(parts, entries[i].Label)
		entries = entries[i].Children
	}

	return strings.Join(parts, " › ")
}

func (m *Model) help() string {
	if m.prompt.State() == prompt.Open {
		return "enter add • esc cancel"
	}

	if len(m.stack) > 0 {
		return "↑/↓ move • enter select • esc back • q quit"
	}

	return "↑/↓ move • enter open • a add quest • q quit"
}

// Run runs the program until the user quits. The returned error is nil on a
// normal quit.
func Run(p *tea.Program) error {
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running tray: %w", err)
	}

	return nil
}
