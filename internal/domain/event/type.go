package event

// Type identifies the type of domain event emitted after a committed transition
type Type string

const (
	TypeRequisitionCreated  Type = "requisition.created"
	TypeStateChanged        Type = "requisition.state_changed"
	TypeRequisitionClosed   Type = "requisition.closed"
	TypeRequisitionRejected Type = "requisition.rejected"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeRequisitionCreated,
		TypeStateChanged,
		TypeRequisitionClosed,
		TypeRequisitionRejected:
		return true
	default:
		return false
	}
}
