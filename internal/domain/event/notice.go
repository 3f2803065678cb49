package event

import (
	"time"

	"github.com/google/uuid"
)

// Audience is a hint about who should hear of a transition. The notification
// collaborator owns the mapping from audience to concrete addresses; the core
// never resolves recipient lists itself.
type Audience string

const (
	AudienceHR           Audience = "hr"
	AudiencePayroll      Audience = "payroll"
	AudienceVP           Audience = "vp"
	AudienceNextApprover Audience = "next_approver"
	AudienceRequester    Audience = "requester"
)

// TransitionNotice is the immutable side-effect descriptor produced after a
// committed transition. It is built outside the record lock and handed to the
// notification collaborator as-is.
type TransitionNotice struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	RequisitionID string    `json:"requisition_id"`
	FromState     string    `json:"from_state"`
	ToState       string    `json:"to_state"`
	Action        string    `json:"action"`
	ActorEmail    string    `json:"actor_email"`
	ActorName     string    `json:"actor_name"`
	Reason        string    `json:"reason,omitempty"`

	// Audiences hints at distribution lists; NextApproverEmail carries the
	// concrete address when the next gate is a chain slot.
	Audiences         []Audience `json:"audiences"`
	NextApproverEmail string     `json:"next_approver_email,omitempty"`

	// Warning surfaces the advisory actor/approver mismatch, if any.
	Warning string `json:"warning,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewTransitionNotice creates a notice with a generated id and timestamp
func NewTransitionNotice(eventType Type, requisitionID, fromState, toState string) *TransitionNotice {
	return &TransitionNotice{
		ID:            uuid.NewString(),
		Type:          eventType,
		RequisitionID: requisitionID,
		FromState:     fromState,
		ToState:       toState,
		Timestamp:     time.Now(),
	}
}
