package domain

// Phase is the current stage of an interview session.
type Phase string

const (
	PhaseRoleSelection Phase = "role-selection"
	PhaseModeSelection Phase = "mode-selection"
	PhaseInterview     Phase = "interview"
	PhaseSummary       Phase = "summary"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseRoleSelection, PhaseModeSelection, PhaseInterview, PhaseSummary:
		return true
	}
	return false
}

// Mode selects the style of interview questions.
type Mode string

const (
	ModeTechnical  Mode = "technical"
	ModeBehavioral Mode = "behavioral"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeTechnical || m == ModeBehavioral
}
