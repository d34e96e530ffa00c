package tray_test

import (
	"errors"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/questbar/internal/clock"
	"github.com/calvinalkan/questbar/internal/fs"
	"github.com/calvinalkan/questbar/internal/menu"
	"github.com/calvinalkan/questbar/internal/prompt"
	"github.com/calvinalkan/questbar/internal/quest"
	"github.com/calvinalkan/questbar/internal/storage"
	"github.com/calvinalkan/questbar/internal/textfit"
	"github.com/calvinalkan/questbar/internal/tray"
)

var tenPerRune = textfit.MeasureFunc(func(s string) float64 {
	return float64(utf8.RuneCountInString(s) * 10)
})

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type harness struct {
	// pending holds store notifications not yet delivered to the model.
	pending []tea.Msg
	model   *tray.Model
	store  *quest.Store
	file   *storage.File
	clock  *clock.Fake
	opened []string
	open   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{clock: clock.NewFake()}
	h.file = storage.InDir(fs.NewReal(), t.TempDir())
	h.store = quest.Open(h.file, quest.Options{
		OnChange: func(st quest.State) {
			h.pending = append(h.pending, tray.StateChangedMsg{State: st})
		},
	})
	h.model = tray.New(tray.Options{
		Store:     h.store,
		Fitter:    textfit.New(tenPerRune),
		Display:   textfit.Display{LogicalWidth: 1440, ScaleFactor: 1},
		QuestFile: h.file.Path(),
		Opener: func(path string) error {
			h.opened = append(h.opened, path)

			return h.open
		},
		Clock: h.clock,
	})

	return h
}

// flush delivers pending store notifications, as a running program would.
func (h *harness) flush() {
	for len(h.pending) > 0 {
		msg := h.pending[0]
		h.pending = h.pending[1:]
		h.model.Update(msg)
	}
}

func (h *harness) press(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	for _, msg := range msgs {
		h.flush()
		_, cmd = h.model.Update(msg)
	}

	h.flush()

	return cmd
}

func Test_Model_Initial_View_Shows_Fixed_Entries(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	view := h.model.View()

	assert.Contains(t, view, menu.LabelAddQuest)
	assert.Contains(t, view, menu.LabelQuestFile)
	assert.Contains(t, view, menu.LabelQuit)
	assert.Equal(t, "", h.model.Label())
	assert.Equal(t, "", h.model.Tooltip())
}

func Test_Model_Adds_Quest_Through_Prompt(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.press(keyEnter)
	require.Equal(t, prompt.Open, h.model.PromptState())
	assert.Contains(t, h.model.View(), "enter add")

	h.press(runes("Slay Dragon"), keyEnter)

	assert.Equal(t, prompt.Absent, h.model.PromptState())
	assert.Equal(t, []quest.Quest{{Title: "Slay Dragon"}}, h.store.State().Quests)
	assert.Contains(t, h.model.View(), "Slay Dragon")

	// Persisted immediately.
	st, err := h.file.Load()
	require.NoError(t, err)
	assert.Equal(t, h.store.State(), st)
}

func Test_Model_Cancel_Prompt_Adds_Nothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.press(runes("a"), runes("Forgotten quest"), keyEsc)

	assert.Equal(t, prompt.Absent, h.model.PromptState())
	assert.Empty(t, h.store.State().Quests)
}

func Test_Model_Blur_Closes_Prompt_Only_After_Grace(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.press(keyEnter, tea.BlurMsg{})
	assert.Equal(t, prompt.Open, h.model.PromptState(), "blur inside grace period")

	h.clock.Advance(prompt.BlurGrace)
	h.press(tea.BlurMsg{})
	assert.Equal(t, prompt.Absent, h.model.PromptState())
}

func Test_Model_Shutdown_Forgets_Open_Prompt(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.press(keyEnter)
	require.Equal(t, prompt.Open, h.model.PromptState())

	h.model.Shutdown()

	assert.Equal(t, prompt.Absent, h.model.PromptState())
	assert.Equal(t, 0, h.clock.Pending(), "grace and fade timers stopped")
	assert.NotContains(t, h.model.View(), "enter add")

	// Shutting down without an overlay is harmless.
	h.model.Shutdown()
	assert.Equal(t, prompt.Absent, h.model.PromptState())
}

func Test_Model_Start_And_Vanquish_Update_Status_Label(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.AddQuest("Slay Dragon")
	h.press(keyUp) // no-op at the top

	// Add, sep, "Slay Dragon" > Start Quest.
	h.press(keyDown, keyEnter, keyEnter)

	assert.Equal(t, "Slay Dragon", h.store.State().ActiveQuest)
	assert.Equal(t, "Sla…", h.model.Label())
	assert.Equal(t, "Slay Dragon", h.model.Tooltip())
	assert.Contains(t, h.model.View(), "Sla…")

	// "★ Slay Dragon" > Vanquish.
	h.press(keyDown, keyEnter, keyEnter)

	assert.Equal(t, []quest.Quest{{Title: "Slay Dragon", Done: true}}, h.store.State().Quests)
	assert.Equal(t, "", h.model.Label())
	assert.Contains(t, h.model.View(), menu.DonePrefix+"Slay Dragon")
}

func Test_Model_Escape_Leaves_Submenu(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.AddQuest("A")

	h.press(keyDown, keyEnter)
	assert.Contains(t, h.model.View(), menu.LabelStartQuest)

	h.press(keyEsc)
	assert.NotContains(t, h.model.View(), menu.LabelStartQuest)
	assert.Empty(t, h.store.State().ActiveQuest)
}

func Test_Model_External_Change_Drops_Stale_Submenu(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.AddQuest("A")
	h.press(keyDown, keyEnter)
	require.Contains(t, h.model.View(), menu.LabelStartQuest)

	// The file was emptied behind our back.
	require.NoError(t, h.file.Save(quest.Default()))
	require.NoError(t, h.store.Reload())
	h.flush()

	view := h.model.View()
	assert.NotContains(t, view, menu.LabelStartQuest)
	assert.NotContains(t, view, "A ›")
	assert.Contains(t, view, menu.LabelAddQuest)
}

func Test_Model_Open_File_Uses_Opener_And_Flashes_Errors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	// Add, sep, sep, QuestFile > Open QuestFile.
	h.press(keyDown, keyEnter, keyEnter)
	assert.Equal(t, []string{h.file.Path()}, h.opened)

	h.open = errors.New("no viewer")
	h.press(keyDown, keyEnter, keyEnter)
	assert.Contains(t, h.model.View(), "no viewer")
}

func Test_Model_Quit_Entry_Quits(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.press(keyDown, keyDown, keyDown)
	cmd := h.press(keyEnter)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "", h.model.View())
}

func Test_ExecOpener_Without_Command(t *testing.T) {
	t.Parallel()

	err := tray.ExecOpener("  ")("/tmp/x")
	require.ErrorIs(t, err, tray.ErrNoOpener)

	err = tray.ExecOpener("/nonexistent/questbar-opener")("/tmp/x")
	require.Error(t, err)
}
