package service

import "errors"

// Action boundary error taxonomy. Every failure of the core is recovered here
// and returned as one of these; none propagate as unhandled faults.
var (
	// ErrNotFound - the requisition id does not exist. Not retryable.
	ErrNotFound = errors.New("requisition not found")

	// ErrInvalidAction - unparseable action code or structurally malformed
	// input. Rejected before touching the store.
	ErrInvalidAction = errors.New("invalid action")

	// ErrPreconditionFailed - syntactically valid but impossible against the
	// current record (e.g. candidate data missing). No mutation performed.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrStoreFailure - the transaction could not commit. The record is
	// unchanged; the caller may retry.
	ErrStoreFailure = errors.New("store failure")
)
