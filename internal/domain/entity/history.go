package entity

import "time"

// HistoryEntry is one row of the append-only audit trail. Entries are written
// in the same transaction as the transition they describe and never updated.
type HistoryEntry struct {
	ID            int64     `json:"id"`
	RequisitionID string    `json:"requisition_id"`
	PreviousState string    `json:"previous_state"`
	NewState      string    `json:"new_state"`
	Action        string    `json:"action"`
	ActorEmail    string    `json:"actor_email"`
	ActorName     string    `json:"actor_name"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
