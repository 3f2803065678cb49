package event

import "testing"

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		eventType Type
		expected  bool
	}{
		{TypeRequisitionCreated, true},
		{TypeStateChanged, true},
		{TypeRequisitionClosed, true},
		{TypeRequisitionRejected, true},
		{Type("unknown.event"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.expected {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewTransitionNotice(t *testing.T) {
	notice := NewTransitionNotice(TypeStateChanged, "REQ-1", "En revisión por GH", "En aprobación")

	if notice.ID == "" {
		t.Error("notice ID should be generated")
	}
	if notice.Timestamp.IsZero() {
		t.Error("notice timestamp should be stamped")
	}
	if notice.RequisitionID != "REQ-1" {
		t.Errorf("RequisitionID = %q", notice.RequisitionID)
	}
	if notice.FromState != "En revisión por GH" || notice.ToState != "En aprobación" {
		t.Errorf("states = %q -> %q", notice.FromState, notice.ToState)
	}
}
