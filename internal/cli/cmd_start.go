package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/questbar/internal/quest"
)

// StartCmd returns the start command.
func StartCmd(a *app) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("start", flag.ContinueOnError),
		Usage:   "start <index|title>",
		MaxArgs: AnyArgs,
		Short:   "Make a quest the active one",
		Long: `Make a quest the active one. The quest is chosen by its index
from "questbar ls" or by its title (first open match).`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execStart(io, a, args)
		},
	}
}

func execStart(io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrTitleRequired
	}

	store := a.openStore(quest.Options{})
	st := store.State()

	q, err := resolveQuest(st, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if q.Done {
		return fmt.Errorf("%w: %s", ErrQuestDone, q.Title)
	}

	store.SetActive(q.Title)
	io.Println("Started", q.Title)

	return nil
}

// resolveQuest finds a quest by index or, failing that, by title. Open
// quests win over vanquished ones with the same title.
func resolveQuest(st quest.State, ref string) (quest.Quest, error) {
	ref = strings.TrimSpace(ref)

	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 0 || idx >= len(st.Quests) {
			return quest.Quest{}, fmt.Errorf("%w: %d", quest.ErrIndexOutOfRange, idx)
		}

		return st.Quests[idx], nil
	}

	if i, ok := st.FindOpen(ref); ok {
		return st.Quests[i], nil
	}

	if i, ok := st.Find(ref); ok {
		return st.Quests[i], nil
	}

	return quest.Quest{}, fmt.Errorf("%w: %s", ErrQuestNotFound, ref)
}

// StopCmd returns the stop command.
func StopCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("stop", flag.ContinueOnError),
		Usage: "stop",
		Short: "Stop the active quest",
		Long:  "Clear the active quest without vanquishing it.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			store := a.openStore(quest.Options{})

			active := store.State().ActiveQuest
			if active == "" {
				return ErrNoActiveQuest
			}

			store.ClearActive()
			io.Println("Stopped", active)

			return nil
		},
	}
}

// DoneCmd returns the done command.
func DoneCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("done", flag.ContinueOnError),
		Usage: "done",
		Short: "Vanquish the active quest",
		Long:  "Mark the active quest as done and clear it.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			store := a.openStore(quest.Options{})
			active := store.State().ActiveQuest

			if !store.MarkActiveDone() {
				return ErrNoActiveQuest
			}

			io.Println("Vanquished", active)

			return nil
		},
	}
}

// ToggleCmd returns the toggle command.
func ToggleCmd(a *app) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("toggle", flag.ContinueOnError),
		Usage:   "toggle <index>",
		MaxArgs: 1,
		Short:   "Vanquish or resurrect a quest",
		Long: `Flip the done flag of the quest at index. Vanquishing the active
quest also clears it.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execToggle(io, a, args)
		},
	}
}

func execToggle(io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return ErrIndexRequired
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidIndex, args[0])
	}

	store := a.openStore(quest.Options{})

	err = store.ToggleDone(idx)
	if err != nil {
		return err
	}

	q := store.State().Quests[idx]
	if q.Done {
		io.Println("Vanquished", q.Title)
	} else {
		io.Println("Resurrected", q.Title)
	}

	return nil
}
