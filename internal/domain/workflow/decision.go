package workflow

// Decision is the recorded outcome of an individual review or approval slot.
// The zero value means the slot has not been seeded yet.
type Decision string

const (
	DecisionUnset         Decision = ""
	DecisionPending       Decision = "PENDIENTE"
	DecisionApproved      Decision = "APROBADA"
	DecisionRejected      Decision = "RECHAZADA"
	DecisionNotApplicable Decision = "NO_APLICA"
)

var decisionDisplayNames = map[Decision]string{
	DecisionPending:       "Pendiente",
	DecisionApproved:      "Aprobada",
	DecisionRejected:      "Rechazada",
	DecisionNotApplicable: "No aplica",
}

// AllDecisions returns every non-zero decision in stable order.
func AllDecisions() []Decision {
	return []Decision{
		DecisionPending,
		DecisionApproved,
		DecisionRejected,
		DecisionNotApplicable,
	}
}

// IsValid returns true for defined non-zero decisions
func (d Decision) IsValid() bool {
	_, ok := decisionDisplayNames[d]
	return ok
}

// String returns the enum identifier of the decision
func (d Decision) String() string {
	return string(d)
}

// Display returns the canonical display string persisted in the store.
// The unset decision renders as the empty string.
func (d Decision) Display() string {
	return decisionDisplayNames[d]
}
