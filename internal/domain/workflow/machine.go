package workflow

import "context"

// StateMachine tracks the current requisition state and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the action is permitted in the current state
	CanFire(action Action) bool

	// Fire attempts to execute the action, transitioning to the new state if allowed
	Fire(ctx context.Context, action Action) error

	// PermittedActions returns all actions that can be fired in the current state
	PermittedActions() []Action
}
