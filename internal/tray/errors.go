package tray

import "errors"

var (
	ErrAlreadyRunning = errors.New("questbar tray already running")
	ErrNoOpener       = errors.New("no open command configured")
)
