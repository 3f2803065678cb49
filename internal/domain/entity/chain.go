package entity

import (
	"strings"
	"time"

	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
)

// ApproverSlot is one position in the hierarchical approver chain. A slot
// seeded without an email is permanently NotApplicable and skipped by level
// computation.
type ApproverSlot struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Status    workflow.Decision `json:"status"`
	DecidedAt *time.Time        `json:"decided_at,omitempty"`
	Reason    string            `json:"reason,omitempty"`
}

// Active reports whether the slot participates in level computation
func (s *ApproverSlot) Active() bool {
	return s.Email != "" && s.Status != workflow.DecisionNotApplicable
}

func (s *ApproverSlot) pending() bool {
	return s.Email != "" &&
		(s.Status == workflow.DecisionUnset || s.Status == workflow.DecisionPending)
}

// Chain holds the ordered approval slots of a requisition
type Chain struct {
	Slots [workflow.MaxLevel]ApproverSlot `json:"slots"`
}

// Seed populates the slot at the given level during intake. An actor without
// an email marks the slot inert.
func (c *Chain) Seed(level workflow.Level, approver Actor) {
	if level < workflow.Level1 || level > workflow.Level3 {
		return
	}
	slot := &c.Slots[level-1]
	slot.Name = approver.Name
	slot.Email = approver.Email
	if approver.Email == "" {
		slot.Status = workflow.DecisionNotApplicable
	} else {
		slot.Status = workflow.DecisionPending
	}
}

// Slot returns the slot at the given level, or nil for Final/out-of-range
func (c *Chain) Slot(level workflow.Level) *ApproverSlot {
	if level < workflow.Level1 || level > workflow.Level3 {
		return nil
	}
	return &c.Slots[level-1]
}

// FirstPendingLevel scans slots in order and returns the first one with a
// non-empty email still awaiting a decision, or Final.
func (c *Chain) FirstPendingLevel() workflow.Level {
	for i := range c.Slots {
		if c.Slots[i].pending() {
			return workflow.Level(i + 1)
		}
	}
	return workflow.LevelFinal
}

// NextLevelAfter returns the next pending level after l, skipping inert
// slots, or Final.
func (c *Chain) NextLevelAfter(l workflow.Level) workflow.Level {
	for i := int(l); i < len(c.Slots); i++ {
		if c.Slots[i].pending() {
			return workflow.Level(i + 1)
		}
	}
	return workflow.LevelFinal
}

// HasPending reports whether any slot still awaits a decision
func (c *Chain) HasPending() bool {
	return c.FirstPendingLevel() != workflow.LevelFinal
}

// MarkAllNotApplicable inertly retires every slot; used when the requisition
// is rejected before reaching the approver stage.
func (c *Chain) MarkAllNotApplicable() {
	for i := range c.Slots {
		c.Slots[i].Status = workflow.DecisionNotApplicable
	}
}

// ApplyDecision records an approver decision at the given level and returns
// the next pending level.
//
// On approval, consecutive slots owned by the same email (case-insensitive)
// are approved in the same pass, so a person occupying two adjacent roles is
// not asked to re-approve their own decision. The walk is bounded by the slot
// count. On rejection only the rejecting slot is stamped; the caller moves the
// requisition to its terminal state.
func (c *Chain) ApplyDecision(level workflow.Level, decision workflow.Decision, actor Actor, reason string, now time.Time) (workflow.Level, error) {
	slot := c.Slot(level)
	if slot == nil {
		return workflow.LevelFinal, workflow.ErrInvalidLevel
	}

	if slot.Name == "" {
		slot.Name = actor.Name
	}
	if slot.Email == "" {
		slot.Email = actor.Email
	}
	slot.Status = decision
	slot.Reason = reason
	decidedAt := now
	slot.DecidedAt = &decidedAt

	if decision == workflow.DecisionRejected {
		return workflow.LevelFinal, nil
	}

	next := c.NextLevelAfter(level)
	for !next.IsFinal() {
		candidate := c.Slot(next)
		if !strings.EqualFold(candidate.Email, actor.Email) {
			break
		}
		candidate.Status = workflow.DecisionApproved
		candidate.Reason = reason
		cascadeAt := now
		candidate.DecidedAt = &cascadeAt
		next = c.NextLevelAfter(next)
	}

	return next, nil
}
