package workflow

// Action represents an inbound command that can cause a state transition
type Action string

const (
	ActionHRApprove        Action = "HR_APPROVE"
	ActionHRReject         Action = "HR_REJECT"
	ActionApproveLevel     Action = "APPROVE_LEVEL"
	ActionRejectLevel      Action = "REJECT_LEVEL"
	ActionSelectionApprove Action = "SELECTION_APPROVE"
	ActionSelectionReject  Action = "SELECTION_REJECT"
	ActionSaveCandidate    Action = "SAVE_CANDIDATE"
	ActionPayrollApprove   Action = "PAYROLL_APPROVE"
	ActionPayrollReject    Action = "PAYROLL_REJECT"
	ActionPayrollReturn    Action = "PAYROLL_RETURN"
	ActionVPClose          Action = "VP_CLOSE"
	ActionVPReject         Action = "VP_REJECT"
	ActionVPReturn         Action = "VP_RETURN"
)

// actionDisplayNames holds the canonical tokens accepted at the action intake
// boundary; legacy callers send these in free text.
var actionDisplayNames = map[Action]string{
	ActionHRApprove:        "Aprobar revisión GH",
	ActionHRReject:         "Rechazar revisión GH",
	ActionApproveLevel:     "Aprobar nivel",
	ActionRejectLevel:      "Rechazar nivel",
	ActionSelectionApprove: "Aprobar selección",
	ActionSelectionReject:  "Rechazar selección",
	ActionSaveCandidate:    "Guardar seleccionado",
	ActionPayrollApprove:   "Aprobar nómina",
	ActionPayrollReject:    "Rechazar nómina",
	ActionPayrollReturn:    "Devolver a selección",
	ActionVPClose:          "Cerrar requisición",
	ActionVPReject:         "Rechazar VP",
	ActionVPReturn:         "Devolver a nómina",
}

var validActions = map[Action]bool{
	ActionHRApprove:        true,
	ActionHRReject:         true,
	ActionApproveLevel:     true,
	ActionRejectLevel:      true,
	ActionSelectionApprove: true,
	ActionSelectionReject:  true,
	ActionSaveCandidate:    true,
	ActionPayrollApprove:   true,
	ActionPayrollReject:    true,
	ActionPayrollReturn:    true,
	ActionVPClose:          true,
	ActionVPReject:         true,
	ActionVPReturn:         true,
}

// AllActions returns every defined action in stable order.
func AllActions() []Action {
	return []Action{
		ActionHRApprove,
		ActionHRReject,
		ActionApproveLevel,
		ActionRejectLevel,
		ActionSelectionApprove,
		ActionSelectionReject,
		ActionSaveCandidate,
		ActionPayrollApprove,
		ActionPayrollReject,
		ActionPayrollReturn,
		ActionVPClose,
		ActionVPReject,
		ActionVPReturn,
	}
}

// IsValid returns true if the action is one of the defined commands
func (a Action) IsValid() bool {
	return validActions[a]
}

// String returns the enum identifier of the action
func (a Action) String() string {
	return string(a)
}

// Display returns the canonical free-text token for the action
func (a Action) Display() string {
	if d, ok := actionDisplayNames[a]; ok {
		return d
	}
	return string(a)
}
