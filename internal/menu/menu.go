// Package menu projects quest state into the tray menu.
//
// [Project] is pure: the same [quest.State] always yields the same entries.
// Entries carry actions as data, and [Dispatch] turns a selected action
// into a store operation or a host request.
package menu

import "github.com/calvinalkan/questbar/internal/quest"

// Kind distinguishes menu rows.
type Kind int

// Menu row kinds.
const (
	KindItem Kind = iota
	KindSeparator
)

// Labels of the fixed entries.
const (
	LabelAddQuest   = "Add New Quest"
	LabelVanquish   = "Vanquish"
	LabelStopQuest  = "Stop Quest"
	LabelStartQuest = "Start Quest"
	LabelResurrect  = "Resurrect"
	LabelQuestFile  = "QuestFile"
	LabelOpenFile   = "Open QuestFile"
	LabelReloadFile = "Reload QuestFile"
	LabelQuit       = "Quit"

	ActivePrefix = "★ "
	DonePrefix   = "✓ "
)

// ActionKind names what selecting an entry does.
type ActionKind int

// Actions. ActionNone marks entries that only open a submenu.
const (
	ActionNone ActionKind = iota
	ActionShowPrompt
	ActionVanquishActive
	ActionStopQuest
	ActionStartQuest
	ActionToggleDone
	ActionOpenFile
	ActionReload
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:           "none",
	ActionShowPrompt:     "show-prompt",
	ActionVanquishActive: "vanquish-active",
	ActionStopQuest:      "stop-quest",
	ActionStartQuest:     "start-quest",
	ActionToggleDone:     "toggle-done",
	ActionOpenFile:       "open-file",
	ActionReload:         "reload",
	ActionQuit:           "quit",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return "unknown"
	}

	return actionNames[k]
}

// Action is what an entry does when selected.
//
// Title is set for [ActionStartQuest]; Index for [ActionToggleDone]. The
// index is only valid against the state the menu was projected from.
type Action struct {
	Kind  ActionKind
	Title string
	Index int
}

// Entry is one menu row.
type Entry struct {
	Kind      Kind
	Label     string
	Highlight bool
	Action    Action
	Children  []Entry
}

// IsSeparator reports whether e is a separator row.
func (e Entry) IsSeparator() bool {
	return e.Kind == KindSeparator
}

// HasSubmenu reports whether e opens a submenu.
func (e Entry) HasSubmenu() bool {
	return len(e.Children) > 0
}

func separator() Entry {
	return Entry{Kind: KindSeparator}
}

func item(label string, action Action) Entry {
	return Entry{Kind: KindItem, Label: label, Action: action}
}

func submenu(label string, children ...Entry) Entry {
	return Entry{Kind: KindItem, Label: label, Children: children}
}

// Project builds the menu for st.
//
// Order: add entry, separator, the active quest (with its separator), open
// quests, a separator only when there are both open and done quests, done
// quests, then the QuestFile submenu and Quit.
func Project(st quest.State) []Entry {
	entries := []Entry{
		item(LabelAddQuest, Action{Kind: ActionShowPrompt}),
		separator(),
	}

	activeIdx := -1
	if st.HasActive() {
		if idx, ok := st.FindOpen(st.ActiveQuest); ok {
			activeIdx = idx
		}
	}

	if activeIdx >= 0 {
		active := submenu(ActivePrefix+st.Quests[activeIdx].Title,
			item(LabelVanquish, Action{Kind: ActionVanquishActive}),
			item(LabelStopQuest, Action{Kind: ActionStopQuest}),
		)
		active.Highlight = true

		entries = append(entries, active, separator())
	}

	var open, done []Entry

	for i, q := range st.Quests {
		switch {
		case q.Done:
			done = append(done, submenu(DonePrefix+q.Title,
				item(LabelResurrect, Action{Kind: ActionToggleDone, Index: i}),
			))
		case q.Title != st.ActiveQuest:
			open = append(open, submenu(q.Title,
				item(LabelStartQuest, Action{Kind: ActionStartQuest, Title: q.Title}),
				item(LabelVanquish, Action{Kind: ActionToggleDone, Index: i}),
			))
		}
	}

	entries = append(entries, open...)

	if len(open) > 0 && len(done) > 0 {
		entries = append(entries, separator())
	}

	entries = append(entries, done...)

	entries = append(entries,
		separator(),
		submenu(LabelQuestFile,
			item(LabelOpenFile, Action{Kind: ActionOpenFile}),
			item(LabelReloadFile, Action{Kind: ActionReload}),
		),
		separator(),
		item(LabelQuit, Action{Kind: ActionQuit}),
	)

	return entries
}
