package quest

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Gateway loads and saves the whole state blob.
//
// Load returns [Default] together with a non-nil error when the persisted
// blob exists but cannot be used; the store logs that error and carries on
// with the returned state.
type Gateway interface {
	Load() (State, error)
	Save(State) error
}

// Options configures a [Store].
type Options struct {
	// Logger receives load/save diagnostics. Defaults to a discarding logger.
	Logger *log.Logger

	// OnChange is called after every mutation (after persisting) and after
	// Reload with a snapshot of the new state. It runs without the store
	// lock held, so it may call back into the store.
	OnChange func(State)
}

// Store is the sole owner of a [State].
//
// Store is safe for concurrent use; operations are serialised and each one
// runs to completion (including the synchronous save) before returning.
type Store struct {
	gw       Gateway
	logger   *log.Logger
	onChange func(State)

	mu    sync.Mutex
	state State
}

// Open creates a Store and loads its initial state from gw.
//
// A missing blob yields the empty state. A malformed or unreadable blob is
// logged and also yields the empty state; Open never fails because of it.
// Panics if gw is nil.
func Open(gw Gateway, opts Options) *Store {
	if gw == nil {
		panic(ErrNoGateway)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Store{
		gw:       gw,
		logger:   logger,
		onChange: opts.OnChange,
	}

	s.state, _ = s.load()

	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Find returns the index of the first quest titled title.
func (s *Store) Find(title string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Find(title)
}

// AddQuest appends an undone quest with the trimmed title.
//
// Returns false without touching state when the trimmed title is empty or
// when an undone quest with the same title already exists.
func (s *Store) AddQuest(title string) bool {
	title = normalizeTitle(title)
	if title == "" {
		return false
	}

	return s.mutate(func(st *State) bool {
		if _, dup := st.FindOpen(title); dup {
			s.logger.Warn("ignoring duplicate quest", "title", title)

			return false
		}

		st.Quests = append(st.Quests, Quest{Title: title, Done: false})

		return true
	})
}

// SetActive makes title the active quest. The title is not validated;
// callers pass the title of an undone quest.
func (s *Store) SetActive(title string) {
	s.mutate(func(st *State) bool {
		st.ActiveQuest = title

		return true
	})
}

// ToggleDone flips the done flag of the quest at index. When that makes the
// active quest done, the active quest is cleared in the same mutation.
//
// An index outside the list returns [ErrIndexOutOfRange] and changes nothing.
func (s *Store) ToggleDone(index int) error {
	var err error

	s.mutate(func(st *State) bool {
		if index < 0 || index >= len(st.Quests) {
			err = fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(st.Quests))

			return false
		}

		q := &st.Quests[index]
		q.Done = !q.Done

		if q.Done && q.Title == st.ActiveQuest {
			st.ActiveQuest = ""
		}

		return true
	})

	return err
}

// ClearActive stops the active quest without completing it.
func (s *Store) ClearActive() {
	s.mutate(func(st *State) bool {
		st.ActiveQuest = ""

		return true
	})
}

// MarkActiveDone marks the active quest done and clears the active pointer.
// It is a no-op when no undone quest carries the active title.
func (s *Store) MarkActiveDone() bool {
	return s.mutate(func(st *State) bool {
		if !st.HasActive() {
			return false
		}

		idx, ok := st.FindOpen(st.ActiveQuest)
		if !ok {
			return false
		}

		st.Quests[idx].Done = true
		st.ActiveQuest = ""

		return true
	})
}

// Reload discards the in-memory state and loads it again from the gateway.
//
// The returned error is diagnostic only: on a malformed blob the store has
// already fallen back to the empty state.
func (s *Store) Reload() error {
	s.mu.Lock()
	st, err := s.load()
	s.state = st
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.notify(snapshot)

	return err
}

// mutate runs fn on the state under the lock. When fn reports a change the
// state is saved and observers are notified. Save failures are logged and
// the in-memory mutation stands.
func (s *Store) mutate(fn func(st *State) bool) bool {
	s.mu.Lock()

	changed := fn(&s.state)
	if !changed {
		s.mu.Unlock()

		return false
	}

	snapshot := s.state.Clone()

	err := s.gw.Save(snapshot)
	if err != nil {
		s.logger.Error("failed to save quests", "err", err)
	}

	s.mu.Unlock()

	s.notify(snapshot)

	return true
}

func (s *Store) load() (State, error) {
	st, err := s.gw.Load()
	if err != nil {
		s.logger.Warn("failed to load quests, starting empty", "err", err)

		return Default(), err
	}

	return st.Clone(), nil
}

func (s *Store) notify(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}
