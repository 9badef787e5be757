// Package session owns the interview session state machine.
//
// A session moves through role selection, mode selection, the interview
// itself, and a final summary. The phase field is the serialization point:
// every action is checked against the current phase under the session mutex,
// so a stale action arriving after the phase has moved on is rejected rather
// than applied.
package session

import (
	"fmt"
	"sync"

	"github.com/prepdeck/prepdeck/internal/catalog"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/logging"
	"github.com/prepdeck/prepdeck/internal/summary"
)

// CompleteFunc is invoked exactly once per session when the interview
// finishes, with the frozen transcript and its final score.
type CompleteFunc func(transcript []domain.Message, finalScore float64)

// ResetFunc is invoked exactly once per StartNew.
type ResetFunc func()

// Option configures a Machine.
type Option func(*Machine)

// WithOnComplete registers the interview-completion callback.
func WithOnComplete(fn CompleteFunc) Option {
	return func(m *Machine) { m.onComplete = fn }
}

// WithOnReset registers the new-session callback.
func WithOnReset(fn ResetFunc) Option {
	return func(m *Machine) { m.onReset = fn }
}

// Machine is a single user's interview session. All methods are safe for
// concurrent use; transitions are all-or-nothing.
type Machine struct {
	mu  sync.Mutex
	cat *catalog.Catalog
	log *logging.Logger

	phase      domain.Phase
	roleID     string
	domainName string
	mode       domain.Mode
	transcript []domain.Message
	finalScore float64
	scored     bool

	// epoch increments on every successful transition. An evaluation result
	// carrying an old epoch is discarded instead of appended.
	epoch uint64

	onComplete CompleteFunc
	onReset    ResetFunc
}

// New creates a session in the role-selection phase with all fields unset.
func New(cat *catalog.Catalog, log *logging.Logger, opts ...Option) *Machine {
	m := &Machine{
		cat:   cat,
		log:   log.Sub("session"),
		phase: domain.PhaseRoleSelection,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Epoch returns the current transition epoch. Capture it before a suspending
// call and pass it to TryAppend afterwards.
func (m *Machine) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// SelectRoleAndDomain records the chosen role and domain and advances to mode
// selection. The domain must belong to the role's catalog entry.
func (m *Machine) SelectRoleAndDomain(roleID, domainName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhaseRoleSelection {
		return m.illegal("SelectRoleAndDomain")
	}

	domains, err := m.cat.DomainsFor(roleID)
	if err != nil {
		m.log.Warn().Str("role", roleID).Str("domain", domainName).Err(err).Msg("selection rejected")
		return domain.NewSelectionError(roleID, domainName, err)
	}

	valid := false
	for _, d := range domains {
		if d == domainName {
			valid = true
			break
		}
	}
	if !valid {
		m.log.Warn().Str("role", roleID).Str("domain", domainName).Msg("domain not in role's list")
		return domain.NewSelectionError(roleID, domainName, nil)
	}

	m.roleID = roleID
	m.domainName = domainName
	m.advance(domain.PhaseModeSelection)
	return nil
}

// SelectMode records the interview mode and advances to the interview phase
// with an empty transcript.
func (m *Machine) SelectMode(mode domain.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhaseModeSelection {
		return m.illegal("SelectMode")
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidSelection, mode)
	}

	m.mode = mode
	m.transcript = nil
	m.advance(domain.PhaseInterview)
	return nil
}

// Append adds a message to the transcript. Valid only during the interview.
func (m *Machine) Append(msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhaseInterview {
		return m.illegal("Append")
	}
	if !msg.Kind.Valid() {
		return fmt.Errorf("unknown message kind %q", msg.Kind)
	}

	m.transcript = append(m.transcript, msg)
	return nil
}

// TryAppend appends msg only if the session is still in the interview phase
// and no transition has happened since epoch was captured. It reports whether
// the message was appended; a false return means the result was superseded
// and must be discarded.
func (m *Machine) TryAppend(epoch uint64, msg domain.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhaseInterview || m.epoch != epoch {
		m.log.Debug().
			Str("kind", string(msg.Kind)).
			Uint64("epoch", epoch).
			Uint64("current", m.epoch).
			Msg("discarding stale message")
		return false
	}

	m.transcript = append(m.transcript, msg)
	return true
}

// CompleteInterview freezes the transcript, derives the final score from its
// feedback messages, and advances to the summary phase. This is the only way
// the final score is ever set.
func (m *Machine) CompleteInterview() (float64, error) {
	m.mu.Lock()

	if m.phase != domain.PhaseInterview {
		defer m.mu.Unlock()
		return 0, m.illegal("CompleteInterview")
	}

	score := summary.Aggregate(summary.Scores(m.transcript))
	m.finalScore = score
	m.scored = true
	m.advance(domain.PhaseSummary)

	transcript := copyTranscript(m.transcript)
	onComplete := m.onComplete
	m.mu.Unlock()

	if onComplete != nil {
		onComplete(transcript, score)
	}
	return score, nil
}

// GoBack navigates one phase backwards. From mode selection it clears the
// role and domain; from the interview it clears the mode and the in-progress
// transcript. Illegal elsewhere.
func (m *Machine) GoBack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.phase {
	case domain.PhaseModeSelection:
		m.roleID = ""
		m.domainName = ""
		m.advance(domain.PhaseRoleSelection)
		return nil
	case domain.PhaseInterview:
		m.mode = ""
		m.transcript = nil
		m.advance(domain.PhaseModeSelection)
		return nil
	default:
		return m.illegal("GoBack")
	}
}

// StartNew resets the session to its initial empty state. Valid only from the
// summary phase.
func (m *Machine) StartNew() error {
	m.mu.Lock()

	if m.phase != domain.PhaseSummary {
		defer m.mu.Unlock()
		return m.illegal("StartNew")
	}

	m.roleID = ""
	m.domainName = ""
	m.mode = ""
	m.transcript = nil
	m.finalScore = 0
	m.scored = false
	m.advance(domain.PhaseRoleSelection)

	onReset := m.onReset
	m.mu.Unlock()

	if onReset != nil {
		onReset()
	}
	return nil
}

// Role returns the selected role ID, if one is set.
func (m *Machine) Role() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roleID, m.roleID != ""
}

// Domain returns the selected domain, if one is set.
func (m *Machine) Domain() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.domainName, m.domainName != ""
}

// Mode returns the selected interview mode, if one is set.
func (m *Machine) Mode() (domain.Mode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode, m.mode != ""
}

// Transcript returns a copy of the transcript.
func (m *Machine) Transcript() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyTranscript(m.transcript)
}

// FinalScore returns the final score and whether it has been set. The score
// is meaningful only once the session reaches the summary phase.
func (m *Machine) FinalScore() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalScore, m.scored
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Phase      domain.Phase     `json:"phase"`
	RoleID     string           `json:"roleId,omitempty"`
	Domain     string           `json:"domain,omitempty"`
	Mode       domain.Mode      `json:"mode,omitempty"`
	Transcript []domain.Message `json:"transcript,omitempty"`
	FinalScore float64          `json:"finalScore,omitempty"`
	Scored     bool             `json:"scored,omitempty"`
}

// Snapshot returns a consistent copy of the whole session.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Phase:      m.phase,
		RoleID:     m.roleID,
		Domain:     m.domainName,
		Mode:       m.mode,
		Transcript: copyTranscript(m.transcript),
		FinalScore: m.finalScore,
		Scored:     m.scored,
	}
}

// advance moves to the next phase and bumps the epoch. Caller holds the lock.
func (m *Machine) advance(next domain.Phase) {
	m.log.Info().
		Str("from", string(m.phase)).
		Str("to", string(next)).
		Msg("phase transition")
	m.phase = next
	m.epoch++
}

// illegal logs and returns an illegal-transition error. Caller holds the lock.
func (m *Machine) illegal(action string) error {
	m.log.Warn().
		Str("action", action).
		Str("phase", string(m.phase)).
		Msg("action attempted in wrong phase")
	return fmt.Errorf("%w: %s in phase %s", domain.ErrIllegalTransition, action, m.phase)
}

func copyTranscript(msgs []domain.Message) []domain.Message {
	if msgs == nil {
		return nil
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}
