package cli

import "errors"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrTitleRequired  = errors.New("quest title is required")
	ErrDuplicateQuest = errors.New("an open quest with this title already exists")
	ErrQuestNotFound  = errors.New("quest not found")
	ErrQuestDone      = errors.New("quest is already vanquished")
	ErrNoActiveQuest  = errors.New("no active quest")
	ErrIndexRequired  = errors.New("quest index is required")
	ErrInvalidIndex   = errors.New("invalid quest index")
	ErrTooManyArgs    = errors.New("too many arguments")
)
