package lifecycle

import "errors"

var (
	// ErrInvalidTransition rejects a lifecycle change the current state does
	// not permit. The UI only offers valid next actions, so hitting this is
	// an internal-consistency failure, not a business outcome.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrWrongActor rejects a transition triggered by the wrong side.
	ErrWrongActor = errors.New("transition not permitted for this role")

	// ErrTerminal rejects mutations of a cancelled or completed job outside
	// the explicit reopen path.
	ErrTerminal = errors.New("job is in a terminal state")

	// ErrAlreadyReopened rejects a second use of the one-shot reopen path.
	ErrAlreadyReopened = errors.New("job was already reopened once")
)
