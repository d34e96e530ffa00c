package menu_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/questbar/internal/menu"
	"github.com/calvinalkan/questbar/internal/quest"
)

// shape flattens top-level entries into short tokens for order checks.
func shape(entries []menu.Entry) []string {
	out := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsSeparator() {
			out = append(out, "sep")

			continue
		}

		out = append(out, e.Label)
	}

	return out
}

func Test_Project_Groups_Active_Open_And_Done(t *testing.T) {
	t.Parallel()

	st := quest.State{
		ActiveQuest: "B",
		Quests: []quest.Quest{
			{Title: "A"},
			{Title: "B"},
			{Title: "C", Done: true},
		},
	}

	want := []string{
		menu.LabelAddQuest, "sep",
		"★ B", "sep",
		"A",
		"sep",
		"✓ C",
		"sep", menu.LabelQuestFile, "sep", menu.LabelQuit,
	}

	if diff := cmp.Diff(want, shape(menu.Project(st))); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func Test_Project_Separator_Between_Open_And_Done_Only_When_Both_Present(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		st   quest.State
		want []string
	}{
		{
			name: "empty",
			st:   quest.Default(),
			want: []string{menu.LabelAddQuest, "sep", "sep", menu.LabelQuestFile, "sep", menu.LabelQuit},
		},
		{
			name: "open only",
			st:   quest.State{Quests: []quest.Quest{{Title: "A"}, {Title: "B"}}},
			want: []string{menu.LabelAddQuest, "sep", "A", "B", "sep", menu.LabelQuestFile, "sep", menu.LabelQuit},
		},
		{
			name: "done only",
			st:   quest.State{Quests: []quest.Quest{{Title: "A", Done: true}}},
			want: []string{menu.LabelAddQuest, "sep", "✓ A", "sep", menu.LabelQuestFile, "sep", menu.LabelQuit},
		},
		{
			name: "active is the only open quest",
			st: quest.State{
				ActiveQuest: "B",
				Quests:      []quest.Quest{{Title: "B"}, {Title: "C", Done: true}},
			},
			want: []string{
				menu.LabelAddQuest, "sep", "★ B", "sep", "✓ C",
				"sep", menu.LabelQuestFile, "sep", menu.LabelQuit,
			},
		},
		{
			name: "open and done keep sequence order",
			st: quest.State{Quests: []quest.Quest{
				{Title: "D1", Done: true},
				{Title: "O1"},
				{Title: "D2", Done: true},
				{Title: "O2"},
			}},
			want: []string{
				menu.LabelAddQuest, "sep", "O1", "O2", "sep", "✓ D1", "✓ D2",
				"sep", menu.LabelQuestFile, "sep", menu.LabelQuit,
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, shape(menu.Project(tt.st))); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Project_Is_Deterministic(t *testing.T) {
	t.Parallel()

	st := quest.State{
		ActiveQuest: "B",
		Quests: []quest.Quest{
			{Title: "A"}, {Title: "B"}, {Title: "C", Done: true}, {Title: "D"},
		},
	}

	first := menu.Project(st)
	second := menu.Project(st)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("projections differ (-first +second):\n%s", diff)
	}
}

func Test_Project_Entry_Actions(t *testing.T) {
	t.Parallel()

	st := quest.State{
		ActiveQuest: "B",
		Quests:      []quest.Quest{{Title: "A"}, {Title: "B"}, {Title: "C", Done: true}},
	}

	entries := menu.Project(st)

	want := []menu.Entry{
		{Label: menu.LabelAddQuest, Action: menu.Action{Kind: menu.ActionShowPrompt}},
		{Kind: menu.KindSeparator},
		{
			Label:     "★ B",
			Highlight: true,
			Children: []menu.Entry{
				{Label: menu.LabelVanquish, Action: menu.Action{Kind: menu.ActionVanquishActive}},
				{Label: menu.LabelStopQuest, Action: menu.Action{Kind: menu.ActionStopQuest}},
			},
		},
		{Kind: menu.KindSeparator},
		{
			Label: "A",
			Children: []menu.Entry{
				{Label: menu.LabelStartQuest, Action: menu.Action{Kind: menu.ActionStartQuest, Title: "A"}},
				{Label: menu.LabelVanquish, Action: menu.Action{Kind: menu.ActionToggleDone, Index: 0}},
			},
		},
		{Kind: menu.KindSeparator},
		{
			Label: "✓ C",
			Children: []menu.Entry{
				{Label: menu.LabelResurrect, Action: menu.Action{Kind: menu.ActionToggleDone, Index: 2}},
			},
		},
		{Kind: menu.KindSeparator},
		{
			Label: menu.LabelQuestFile,
			Children: []menu.Entry{
				{Label: menu.LabelOpenFile, Action: menu.Action{Kind: menu.ActionOpenFile}},
				{Label: menu.LabelReloadFile, Action: menu.Action{Kind: menu.ActionReload}},
			},
		},
		{Kind: menu.KindSeparator},
		{Label: menu.LabelQuit, Action: menu.Action{Kind: menu.ActionQuit}},
	}

	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func Test_Project_Done_Quest_Never_In_Open_Group_Even_If_Active(t *testing.T) {
	t.Parallel()

	// A hand-edited file can name a done quest as active; nothing is highlighted.
	st := quest.State{
		ActiveQuest: "A",
		Quests:      []quest.Quest{{Title: "A", Done: true}, {Title: "B"}},
	}

	want := []string{
		menu.LabelAddQuest, "sep", "B", "sep", "✓ A",
		"sep", menu.LabelQuestFile, "sep", menu.LabelQuit,
	}

	if diff := cmp.Diff(want, shape(menu.Project(st))); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func Test_Project_Active_Entry_Skips_Earlier_Done_Duplicate(t *testing.T) {
	t.Parallel()

	store := quest.Open(&memGateway{st: quest.Default()}, quest.Options{})
	store.AddQuest("A")
	require.NoError(t, store.ToggleDone(0))
	require.True(t, store.AddQuest("A"), "done duplicate does not block a new open quest")
	store.SetActive("A")

	st := store.State()
	require.Equal(t, quest.State{
		ActiveQuest: "A",
		Quests:      []quest.Quest{{Title: "A", Done: true}, {Title: "A"}},
	}, st)

	entries := menu.Project(st)

	want := []string{
		menu.LabelAddQuest, "sep", "★ A", "sep", "✓ A",
		"sep", menu.LabelQuestFile, "sep", menu.LabelQuit,
	}

	if diff := cmp.Diff(want, shape(entries)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	// Vanquishing from the active entry completes the open quest, not the done one.
	require.NoError(t, menu.Dispatch(store, &fakeHost{}, entries[2].Children[0].Action))
	assert.Equal(t, []quest.Quest{{Title: "A", Done: true}, {Title: "A", Done: true}}, store.State().Quests)
	assert.Equal(t, "", store.State().ActiveQuest)
}

func Test_Format(t *testing.T) {
	t.Parallel()

	got := menu.Format(menu.Project(quest.State{
		ActiveQuest: "B",
		Quests:      []quest.Quest{{Title: "B"}},
	}))

	want := `Add New Quest
────────
★ B
  Vanquish
  Stop Quest
────────
────────
QuestFile
  Open QuestFile
  Reload QuestFile
────────
Quit
`

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

type fakeHost struct {
	prompts int
	opens   int
	quits   int
	openErr error
}

func (h *fakeHost) ShowPrompt()     { h.prompts++ }
func (h *fakeHost) OpenFile() error { h.opens++; return h.openErr }
func (h *fakeHost) Quit()           { h.quits++ }

type memGateway struct{ st quest.State }

func (g *memGateway) Load() (quest.State, error) { return g.st.Clone(), nil }
func (g *memGateway) Save(st quest.State) error  { g.st = st.Clone(); return nil }

// Selecting entries from a fresh projection after each step drives the
// store through a whole quest lifecycle.
func Test_Dispatch_Drives_Store_Through_Projection(t *testing.T) {
	t.Parallel()

	store := quest.Open(&memGateway{st: quest.Default()}, quest.Options{})
	host := &fakeHost{}

	pick := func(path ...string) {
		t.Helper()

		entries := menu.Project(store.State())

		var found *menu.Entry

		for _, label := range path {
			found = nil

			for i := range entries {
				if entries[i].Label == label {
					found = &entries[i]

					break
				}
			}

			require.NotNil(t, found, "no entry %q in path %v", label, path)
			entries = found.Children
		}

		require.NoError(t, menu.Dispatch(store, host, found.Action))
	}

	pick(menu.LabelAddQuest)
	assert.Equal(t, 1, host.prompts)

	store.AddQuest("A")
	store.AddQuest("B")

	pick("B", menu.LabelStartQuest)
	assert.Equal(t, "B", store.State().ActiveQuest)

	pick("★ B", menu.LabelStopQuest)
	assert.Equal(t, "", store.State().ActiveQuest)

	pick("A", menu.LabelStartQuest)
	pick("★ A", menu.LabelVanquish)
	assert.True(t, store.State().Quests[0].Done)
	assert.Equal(t, "", store.State().ActiveQuest)

	pick("B", menu.LabelVanquish)
	assert.True(t, store.State().Quests[1].Done)

	pick("✓ A", menu.LabelResurrect)
	assert.False(t, store.State().Quests[0].Done)

	pick(menu.LabelQuestFile, menu.LabelOpenFile)
	pick(menu.LabelQuestFile, menu.LabelReloadFile)
	pick(menu.LabelQuit)

	assert.Equal(t, 1, host.opens)
	assert.Equal(t, 1, host.quits)
}

func Test_Dispatch_Wraps_Errors(t *testing.T) {
	t.Parallel()

	store := quest.Open(&memGateway{st: quest.Default()}, quest.Options{})

	err := menu.Dispatch(store, &fakeHost{}, menu.Action{Kind: menu.ActionToggleDone, Index: 3})
	require.ErrorIs(t, err, quest.ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "toggle-done")

	openErr := errors.New("no viewer")
	err = menu.Dispatch(store, &fakeHost{openErr: openErr}, menu.Action{Kind: menu.ActionOpenFile})
	require.ErrorIs(t, err, openErr)

	err = menu.Dispatch(store, &fakeHost{}, menu.Action{Kind: menu.ActionKind(99)})
	require.ErrorIs(t, err, menu.ErrUnknownAction)

	require.NoError(t, menu.Dispatch(store, &fakeHost{}, menu.Action{}))
}
