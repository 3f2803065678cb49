package workflow

import "context"

// BuildRequisitionStateMachine creates a state machine configured with the
// requisition approval pipeline. hasPendingApprover reports whether the
// approver chain still has a pending slot after the current chain mutation has
// been applied; it picks the target of the chain-dependent transitions.
func BuildRequisitionStateMachine(initialState State, hasPendingApprover func() bool) StateMachine {
	builder := NewBuilder()

	pending := func(ctx context.Context) bool { return hasPendingApprover() }
	exhausted := func(ctx context.Context) bool { return !hasPendingApprover() }

	// Intake review. With no approver configured the requisition jumps
	// straight to VP sign-off.
	builder.Configure(StateHRReview).
		PermitIf(ActionHRApprove, StateApproving, pending).
		PermitIf(ActionHRApprove, StateVPReview, exhausted).
		Permit(ActionHRReject, StateRejectedByHR)

	// Hierarchical approvers. Approving stays in EnAprobacion while the chain
	// has pending levels; a rejection at any level is terminal.
	builder.Configure(StateApproving).
		PermitIf(ActionApproveLevel, StateApproving, pending).
		PermitIf(ActionApproveLevel, StateSelection, exhausted).
		Permit(ActionRejectLevel, StateRejected)

	builder.Configure(StateSelection).
		Permit(ActionSelectionApprove, StateVPReview).
		Permit(ActionSelectionReject, StateRejectedBySelection).
		Permit(ActionSaveCandidate, StatePayroll)

	builder.Configure(StatePayroll).
		Permit(ActionPayrollApprove, StateVPReview).
		Permit(ActionPayrollReject, StateRejectedByPayroll).
		Permit(ActionPayrollReturn, StateSelection)

	builder.Configure(StateVPReview).
		Permit(ActionVPClose, StateClosed).
		Permit(ActionVPReject, StateRejectedByVP).
		Permit(ActionVPReturn, StatePayroll)

	// Closed and the Rejected* states are terminal - no outgoing transitions.

	return builder.Build(initialState)
}
