package workflow

import "testing"

func TestParseState_RoundTrip(t *testing.T) {
	for _, s := range AllStates() {
		t.Run(string(s), func(t *testing.T) {
			got, ok := ParseState(s.Display())
			if !ok {
				t.Fatalf("ParseState(%q) not recognized", s.Display())
			}
			if got != s {
				t.Errorf("ParseState(%q) = %v, want %v", s.Display(), got, s)
			}
		})
	}
}

func TestParseDecision_RoundTrip(t *testing.T) {
	for _, d := range AllDecisions() {
		got, ok := ParseDecision(d.Display())
		if !ok || got != d {
			t.Errorf("ParseDecision(%q) = %v, %v, want %v", d.Display(), got, ok, d)
		}
	}
}

func TestParseAction_RoundTrip(t *testing.T) {
	for _, a := range AllActions() {
		got, ok := ParseAction(a.Display())
		if !ok || got != a {
			t.Errorf("ParseAction(%q) = %v, %v, want %v", a.Display(), got, ok, a)
		}
	}
}

func TestParseState_FreeTextVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  State
	}{
		{"canonical", "En revisión por GH", StateHRReview},
		{"uppercase no accents", "EN REVISION POR GH", StateHRReview},
		{"extra whitespace", "  En   revisión \t por GH ", StateHRReview},
		{"bare identifier", "EN_REVISION_POR_GH", StateHRReview},
		{"identifier no separators", "enrevisionporgh", StateHRReview},
		{"accented lowercase", "en aprobación", StateApproving},
		{"rejection variant", "RECHAZADA POR NOMINA", StateRejectedByPayroll},
		{"vp state", "en vp gh", StateVPReview},
		{"closed", "cerrada", StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseState(tt.input)
			if !ok {
				t.Fatalf("ParseState(%q) not recognized", tt.input)
			}
			if got != tt.want {
				t.Errorf("ParseState(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseState_Unparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "no such state", "Aprobadísima"} {
		if got, ok := ParseState(input); ok {
			t.Errorf("ParseState(%q) = %v, want no value", input, got)
		}
	}
}

func TestParseDecision_Variants(t *testing.T) {
	tests := []struct {
		input string
		want  Decision
	}{
		{"Aprobada", DecisionApproved},
		{"APROBADA", DecisionApproved},
		{"pendiente", DecisionPending},
		{"No aplica", DecisionNotApplicable},
		{"NOAPLICA", DecisionNotApplicable},
		{"rechazada", DecisionRejected},
	}

	for _, tt := range tests {
		got, ok := ParseDecision(tt.input)
		if !ok || got != tt.want {
			t.Errorf("ParseDecision(%q) = %v, %v, want %v", tt.input, got, ok, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
		ok    bool
	}{
		{"1", Level1, true},
		{"2", Level2, true},
		{"3", Level3, true},
		{"Final", LevelFinal, true},
		{"FINAL", LevelFinal, true},
		{"4", LevelFinal, false},
		{"", LevelFinal, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
