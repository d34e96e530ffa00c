package quest

import "errors"

// Error variables for quest operations.
var (
	ErrIndexOutOfRange = errors.New("quest index out of range")
	ErrNoGateway       = errors.New("quest store needs a gateway")
)
