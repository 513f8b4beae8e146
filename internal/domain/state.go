package domain

import "strings"

// DelinquencyState is the named mora state of a client. The set is closed;
// legacy records stored free text and are mapped through ParseDelinquencyState.
type DelinquencyState string

const (
	StateCurrent  DelinquencyState = "current"
	StateEarly    DelinquencyState = "early"
	StateModerate DelinquencyState = "moderate"
	StateSevere   DelinquencyState = "severe"
	StateCritical DelinquencyState = "critical"
)

// DelinquencyStates lists all valid states in severity order.
var DelinquencyStates = []DelinquencyState{
	StateCurrent,
	StateEarly,
	StateModerate,
	StateSevere,
	StateCritical,
}

// legacyStates maps the free-text labels found in imported data to the
// closed enum. Keys are lowercased and accent-stripped forms.
var legacyStates = map[string]DelinquencyState{
	"al dia":    StateCurrent,
	"aldia":     StateCurrent,
	"current":   StateCurrent,
	"temprana":  StateEarly,
	"early":     StateEarly,
	"moderada":  StateModerate,
	"moderate":  StateModerate,
	"grave":     StateSevere,
	"severe":    StateSevere,
	"critica":   StateCritical,
	"critical":  StateCritical,
	"critico":   StateCritical,
	"en mora":   StateEarly,
	"sin mora":  StateCurrent,
	"pendiente": StateEarly,
}

// ParseDelinquencyState resolves a stored label, legacy or canonical, into a
// DelinquencyState. The bool is false when the label is unknown.
func ParseDelinquencyState(s string) (DelinquencyState, bool) {
	key := normalizeLabel(s)
	if key == "" {
		return StateCurrent, true
	}
	if st, ok := legacyStates[key]; ok {
		return st, true
	}
	return "", false
}

func (s DelinquencyState) Valid() bool {
	switch s {
	case StateCurrent, StateEarly, StateModerate, StateSevere, StateCritical:
		return true
	}
	return false
}

func (s DelinquencyState) String() string { return string(s) }

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	repl := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")
	return repl.Replace(s)
}
