package menu

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned by [Dispatch] for actions it cannot run.
var ErrUnknownAction = errors.New("unknown menu action")

// Store is the subset of [quest.Store] the menu drives.
type Store interface {
	SetActive(title string)
	ToggleDone(index int) error
	ClearActive()
	MarkActiveDone() bool
	Reload() error
}

// Host performs the actions that leave the store: showing the quest prompt,
// opening the quest file and quitting.
type Host interface {
	ShowPrompt()
	OpenFile() error
	Quit()
}

// Dispatch runs a. Errors from the store or host are returned wrapped with
// the action name; [ActionNone] is a no-op.
func Dispatch(store Store, host Host, a Action) error {
	var err error

	switch a.Kind {
	case ActionNone:
		return nil
	case ActionShowPrompt:
		host.ShowPrompt()
	case ActionVanquishActive:
		store.MarkActiveDone()
	case ActionStopQuest:
		store.ClearActive()
	case ActionStartQuest:
		store.SetActive(a.Title)
	case ActionToggleDone:
		err = store.ToggleDone(a.Index)
	case ActionOpenFile:
		err = host.OpenFile()
	case ActionReload:
		err = store.Reload()
	case ActionQuit:
		host.Quit()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownAction, a.Kind)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", a.Kind, err)
	}

	return nil
}
