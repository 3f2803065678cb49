package workflow

// State represents a requisition state in the approval lifecycle
type State string

const (
	StateHRReview            State = "EN_REVISION_POR_GH"
	StateApproving           State = "EN_APROBACION"
	StateSelection           State = "EN_SELECCION"
	StatePayroll             State = "EN_NOMINA"
	StateVPReview            State = "EN_VP_GH"
	StateClosed              State = "CERRADA"
	StateRejected            State = "RECHAZADA"
	StateRejectedByHR        State = "RECHAZADA_POR_GH"
	StateRejectedBySelection State = "RECHAZADA_POR_SELECCION"
	StateRejectedByPayroll   State = "RECHAZADA_POR_NOMINA"
	StateRejectedByVP        State = "RECHAZADA_POR_VP"
)

// displayNames maps each state to the canonical display string kept in the
// store. These are the exact persisted values; ParseState also accepts
// case/accent/spacing variants of them.
var displayNames = map[State]string{
	StateHRReview:            "En revisión por GH",
	StateApproving:           "En aprobación",
	StateSelection:           "En selección",
	StatePayroll:             "En nómina",
	StateVPReview:            "En VP GH",
	StateClosed:              "Cerrada",
	StateRejected:            "Rechazada",
	StateRejectedByHR:        "Rechazada por GH",
	StateRejectedBySelection: "Rechazada por selección",
	StateRejectedByPayroll:   "Rechazada por nómina",
	StateRejectedByVP:        "Rechazada por VP",
}

var validStates = map[State]bool{
	StateHRReview:            true,
	StateApproving:           true,
	StateSelection:           true,
	StatePayroll:             true,
	StateVPReview:            true,
	StateClosed:              true,
	StateRejected:            true,
	StateRejectedByHR:        true,
	StateRejectedBySelection: true,
	StateRejectedByPayroll:   true,
	StateRejectedByVP:        true,
}

var terminalStates = map[State]bool{
	StateClosed:              true,
	StateRejected:            true,
	StateRejectedByHR:        true,
	StateRejectedBySelection: true,
	StateRejectedByPayroll:   true,
	StateRejectedByVP:        true,
}

// AllStates returns every defined state in stable order.
func AllStates() []State {
	return []State{
		StateHRReview,
		StateApproving,
		StateSelection,
		StatePayroll,
		StateVPReview,
		StateClosed,
		StateRejected,
		StateRejectedByHR,
		StateRejectedBySelection,
		StateRejectedByPayroll,
		StateRejectedByVP,
	}
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid requisition state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the enum identifier of the state
func (s State) String() string {
	return string(s)
}

// Display returns the canonical display string persisted in the store
func (s State) Display() string {
	if d, ok := displayNames[s]; ok {
		return d
	}
	return string(s)
}
