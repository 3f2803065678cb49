package workflow

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// The store keeps states and decisions as display strings typed by humans over
// the years, so lookups must survive case, accent and spacing drift. Parsing
// first tries the canonical display string, then the bare enum identifier with
// separators removed. Unparseable input yields (zero, false), never an error.

var (
	stateByKey    map[string]State
	decisionByKey map[string]Decision
	actionByKey   map[string]Action
)

func init() {
	stateByKey = make(map[string]State)
	for _, s := range AllStates() {
		stateByKey[normalizeKey(s.Display())] = s
		stateByKey[collapseKey(s.Display())] = s
		stateByKey[collapseKey(string(s))] = s
	}
	decisionByKey = make(map[string]Decision)
	for _, d := range AllDecisions() {
		decisionByKey[normalizeKey(d.Display())] = d
		decisionByKey[collapseKey(d.Display())] = d
		decisionByKey[collapseKey(string(d))] = d
	}
	actionByKey = make(map[string]Action)
	for _, a := range AllActions() {
		actionByKey[normalizeKey(a.Display())] = a
		actionByKey[collapseKey(a.Display())] = a
		actionByKey[collapseKey(string(a))] = a
	}
}

// ParseState resolves free text to a State
func ParseState(text string) (State, bool) {
	if s, ok := stateByKey[normalizeKey(text)]; ok {
		return s, true
	}
	s, ok := stateByKey[collapseKey(text)]
	return s, ok
}

// ParseDecision resolves free text to a Decision
func ParseDecision(text string) (Decision, bool) {
	if d, ok := decisionByKey[normalizeKey(text)]; ok {
		return d, true
	}
	d, ok := decisionByKey[collapseKey(text)]
	return d, ok
}

// ParseAction resolves free text to an Action
func ParseAction(text string) (Action, bool) {
	if a, ok := actionByKey[normalizeKey(text)]; ok {
		return a, true
	}
	a, ok := actionByKey[collapseKey(text)]
	return a, ok
}

// ParseLevel resolves free text to a Level ("1".."3" or "Final")
func ParseLevel(text string) (Level, bool) {
	switch normalizeKey(text) {
	case "1":
		return Level1, true
	case "2":
		return Level2, true
	case "3":
		return Level3, true
	case "FINAL":
		return LevelFinal, true
	}
	return LevelFinal, false
}

// normalizeKey uppercases, strips combining marks and collapses whitespace runs
// to a single space.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark stripped by decomposition
		case unicode.IsSpace(r):
			space = b.Len() > 0
		default:
			if space {
				b.WriteRune(' ')
				space = false
			}
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// collapseKey is normalizeKey with spaces and underscores removed entirely,
// used for the bare-identifier fallback.
func collapseKey(s string) string {
	key := normalizeKey(s)
	key = strings.ReplaceAll(key, " ", "")
	return strings.ReplaceAll(key, "_", "")
}
