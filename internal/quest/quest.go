// Package quest owns the quest list and the active-quest pointer.
//
// All mutation goes through [Store]. Every mutating operation keeps the
// active/done invariant, persists the whole [State] through a [Gateway] and
// notifies the observer so the host can re-project its menu.
package quest

import "strings"

// Quest is a single task. Identity is positional: a quest is addressed by
// its index in [State.Quests].
type Quest struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// State is the full persisted state.
//
// ActiveQuest is a title, not a reference. It is "" when no quest is active.
type State struct {
	ActiveQuest string  `json:"activeQuest"`
	Quests      []Quest `json:"quests"`
}

// Default returns the empty state used when nothing is persisted yet.
func Default() State {
	return State{ActiveQuest: "", Quests: []Quest{}}
}

// Clone returns a deep copy of s. A nil quest slice becomes empty.
func (s State) Clone() State {
	quests := make([]Quest, len(s.Quests))
	copy(quests, s.Quests)

	return State{ActiveQuest: s.ActiveQuest, Quests: quests}
}

// HasActive reports whether a quest is active.
func (s State) HasActive() bool {
	return s.ActiveQuest != ""
}

// Find returns the index of the first quest titled title.
func (s State) Find(title string) (int, bool) {
	for i, q := range s.Quests {
		if q.Title == title {
			return i, true
		}
	}

	return -1, false
}

// FindOpen returns the index of the first undone quest titled title.
// The active quest is always resolved this way.
func (s State) FindOpen(title string) (int, bool) {
	for i, q := range s.Quests {
		if !q.Done && q.Title == title {
			return i, true
		}
	}

	return -1, false
}

// normalizeTitle trims surrounding whitespace from a submitted title.
func normalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
