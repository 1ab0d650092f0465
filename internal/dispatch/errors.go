package dispatch

import "errors"

var (
	// ErrNoSenderAccount is returned by SenderRepository when no sender
	// account has been configured.
	ErrNoSenderAccount = errors.New("no sender account configured")

	// ErrNotFound is returned by repositories when a referenced entity
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoTemplate is returned by the planner when a campaign references
	// neither a sequence nor a template for the current step.
	ErrNoTemplate = errors.New("no template resolvable for current step")
)
