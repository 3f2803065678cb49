package entity

import (
	"strings"
	"time"

	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
)

// RequisitionType determines how the approver chain is populated at intake.
// Administrative requisitions use exactly one slot; commercial ones use up to
// two, with the third slot reserved.
type RequisitionType string

const (
	TypeCommercial     RequisitionType = "COMERCIAL"
	TypeAdministrative RequisitionType = "ADMINISTRATIVA"
)

// IsValid returns true for defined requisition types
func (t RequisitionType) IsValid() bool {
	return t == TypeCommercial || t == TypeAdministrative
}

// ParseRequisitionType resolves free text to a RequisitionType
func ParseRequisitionType(text string) (RequisitionType, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "COMERCIAL", "COMMERCIAL":
		return TypeCommercial, true
	case "ADMINISTRATIVA", "ADMINISTRATIVE":
		return TypeAdministrative, true
	}
	return "", false
}

// Actor identifies who performed a workflow action. Identity is caller
// supplied and only advisorily matched against the expected approver.
type Actor struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HRReview records the one-time intake review by Gestión Humana
type HRReview struct {
	ReviewerName  string     `json:"reviewer_name"`
	ReviewerEmail string     `json:"reviewer_email"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

// Selection records the candidate assigned to the requisition
type Selection struct {
	CandidateName     string     `json:"candidate_name"`
	CandidateDocument string     `json:"candidate_document"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	ContractType      string     `json:"contract_type"`
}

// PayrollReview records the payroll stage decision
type PayrollReview struct {
	Status     workflow.Decision `json:"status"`
	ActorName  string            `json:"actor_name"`
	ActorEmail string            `json:"actor_email"`
	DecidedAt  *time.Time        `json:"decided_at,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// Closure records the VP sign-off (or VP rejection / return motive)
type Closure struct {
	ActorName  string     `json:"actor_name"`
	ActorEmail string     `json:"actor_email"`
	Reason     string     `json:"reason,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// Requisition is the aggregate routed through the approval pipeline. It is
// mutated exclusively by the workflow action handlers and never deleted;
// terminal records persist for audit.
type Requisition struct {
	ID    string          `json:"id"`
	Type  RequisitionType `json:"type"`
	State workflow.State  `json:"state"`
	Level workflow.Level  `json:"approval_level"`
	Chain Chain           `json:"approver_chain"`

	JobTitle    string `json:"job_title"`
	Channel     string `json:"channel"`
	Department  string `json:"department"`
	RequestedBy Actor  `json:"requested_by"`

	HRReview  HRReview      `json:"hr_review"`
	Selection Selection     `json:"selection"`
	Payroll   PayrollReview `json:"payroll_review"`
	Closure   Closure       `json:"closure"`

	CreatedAt           time.Time  `json:"created_at"`
	SentForApprovalAt   *time.Time `json:"sent_for_approval_at,omitempty"`
	ApprovalCompletedAt *time.Time `json:"approval_completed_at,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Version backs the optimistic write precondition; bumped on every commit.
	Version int64 `json:"version"`
}

// NewRequisition creates a requisition at intake. Approver slots are seeded
// per type: administrative requisitions take only the first approver,
// commercial ones the first two. Slots without an email stay inert. The
// current level points at the first pending slot, or Final when no approver
// is configured.
func NewRequisition(id string, typ RequisitionType, approvers []Actor, now time.Time) *Requisition {
	req := &Requisition{
		ID:        id,
		Type:      typ,
		State:     workflow.StateHRReview,
		CreatedAt: now,
		UpdatedAt: now,
	}

	limit := 2
	if typ == TypeAdministrative {
		limit = 1
	}
	for i := 0; i < limit && i < len(approvers); i++ {
		req.Chain.Seed(workflow.Level(i+1), approvers[i])
	}

	req.Level = req.Chain.FirstPendingLevel()
	return req
}

// IsTerminal reports whether the requisition reached a terminal state
func (r *Requisition) IsTerminal() bool {
	return r.State.IsTerminal()
}
