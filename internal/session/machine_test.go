package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/catalog"
	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/logging"
)

func newMachine(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	return New(cat, logging.New(nil, "silent"), opts...)
}

// toInterview walks a fresh machine into the interview phase.
func toInterview(t *testing.T, m *Machine) {
	t.Helper()
	require.NoError(t, m.SelectRoleAndDomain("software-engineer", "Backend"))
	require.NoError(t, m.SelectMode(domain.ModeTechnical))
}

// toSummary completes one scored turn and finishes the interview.
func toSummary(t *testing.T, m *Machine) float64 {
	t.Helper()
	toInterview(t, m)
	require.NoError(t, m.Append(domain.NewQuestion("q")))
	require.NoError(t, m.Append(domain.NewAnswer("a")))
	require.NoError(t, m.Append(domain.NewFeedback("f", 8)))
	score, err := m.CompleteInterview()
	require.NoError(t, err)
	return score
}

func TestNew_InitialState(t *testing.T) {
	m := newMachine(t)

	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	_, ok := m.Role()
	assert.False(t, ok)
	_, ok = m.Domain()
	assert.False(t, ok)
	_, ok = m.Mode()
	assert.False(t, ok)
	assert.Empty(t, m.Transcript())
	_, ok = m.FinalScore()
	assert.False(t, ok)
}

// --- SelectRoleAndDomain ---

func TestSelectRoleAndDomain_Valid(t *testing.T) {
	m := newMachine(t)

	require.NoError(t, m.SelectRoleAndDomain("software-engineer", "Backend"))

	assert.Equal(t, domain.PhaseModeSelection, m.Phase())
	role, ok := m.Role()
	require.True(t, ok)
	assert.Equal(t, "software-engineer", role)
	dom, ok := m.Domain()
	require.True(t, ok)
	assert.Equal(t, "Backend", dom)
}

func TestSelectRoleAndDomain_DomainNotInRoleList(t *testing.T) {
	m := newMachine(t)

	err := m.SelectRoleAndDomain("data-scientist", "Marketing Analytics")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	// Session unchanged
	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	_, ok := m.Role()
	assert.False(t, ok)
	_, ok = m.Domain()
	assert.False(t, ok)
}

func TestSelectRoleAndDomain_UnknownRole(t *testing.T) {
	m := newMachine(t)

	err := m.SelectRoleAndDomain("astronaut", "Backend")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
}

func TestSelectRoleAndDomain_WrongPhase(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	err := m.SelectRoleAndDomain("data-analyst", "Operations")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.PhaseInterview, m.Phase())

	// Original selections untouched
	role, _ := m.Role()
	assert.Equal(t, "software-engineer", role)
}

func TestSelectRoleAndDomain_AllCatalogPairs(t *testing.T) {
	cat, err := catalog.New()
	require.NoError(t, err)

	for _, role := range cat.Roles() {
		for _, dom := range role.Domains {
			m := newMachine(t)
			assert.NoError(t, m.SelectRoleAndDomain(role.ID, dom), "%s/%s", role.ID, dom)
		}
		// A domain from a different role must be rejected.
		m := newMachine(t)
		assert.ErrorIs(t, m.SelectRoleAndDomain(role.ID, "not-a-real-domain"), domain.ErrInvalidSelection)
	}
}

// --- SelectMode ---

func TestSelectMode_Valid(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.SelectRoleAndDomain("product-manager", "Growth"))

	require.NoError(t, m.SelectMode(domain.ModeBehavioral))

	assert.Equal(t, domain.PhaseInterview, m.Phase())
	mode, ok := m.Mode()
	require.True(t, ok)
	assert.Equal(t, domain.ModeBehavioral, mode)
	assert.Empty(t, m.Transcript())
}

func TestSelectMode_UnknownMode(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.SelectRoleAndDomain("product-manager", "Growth"))

	err := m.SelectMode(domain.Mode("improv"))
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, domain.PhaseModeSelection, m.Phase())
}

func TestSelectMode_WrongPhase(t *testing.T) {
	m := newMachine(t)

	err := m.SelectMode(domain.ModeTechnical)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	// Nothing mutated
	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	_, ok := m.Mode()
	assert.False(t, ok)
}

// --- Append / transcript ---

func TestAppend_OnlyDuringInterview(t *testing.T) {
	m := newMachine(t)

	err := m.Append(domain.NewQuestion("too early"))
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Empty(t, m.Transcript())
}

func TestAppend_Ordered(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	q := domain.NewQuestion("Explain a hash table's collision resolution strategies")
	a := domain.NewAnswer("Chaining and open addressing")
	f := domain.NewFeedback("Good, mention load factor", 8)
	require.NoError(t, m.Append(q))
	require.NoError(t, m.Append(a))
	require.NoError(t, m.Append(f))

	transcript := m.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, q.ID, transcript[0].ID)
	assert.Equal(t, a.ID, transcript[1].ID)
	assert.Equal(t, domain.KindFeedback, transcript[2].Kind)
	require.NotNil(t, transcript[2].Score)
	assert.Equal(t, 8.0, *transcript[2].Score)
}

func TestAppend_RejectsUnknownKind(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	err := m.Append(domain.Message{ID: "x", Kind: "note", Content: "hm"})
	assert.Error(t, err)
	assert.Empty(t, m.Transcript())
}

func TestTranscript_ReturnsCopy(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)
	require.NoError(t, m.Append(domain.NewQuestion("q")))

	transcript := m.Transcript()
	transcript[0].Content = "mutated"

	assert.Equal(t, "q", m.Transcript()[0].Content)
}

func TestTranscript_AppendOnly(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	q := domain.NewQuestion("q1")
	require.NoError(t, m.Append(q))
	before := m.Transcript()

	require.NoError(t, m.Append(domain.NewAnswer("a1")))
	require.NoError(t, m.Append(domain.NewFeedback("f1", 5)))

	after := m.Transcript()
	require.Len(t, after, 3)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[0].Content, after[0].Content)
	assert.Equal(t, before[0].Kind, after[0].Kind)
}

// --- TryAppend / stale results ---

func TestTryAppend_CurrentEpoch(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	epoch := m.Epoch()
	assert.True(t, m.TryAppend(epoch, domain.NewFeedback("f", 7)))
	assert.Len(t, m.Transcript(), 1)
}

func TestTryAppend_DiscardsAfterGoBack(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)
	require.NoError(t, m.Append(domain.NewQuestion("q")))
	require.NoError(t, m.Append(domain.NewAnswer("a")))

	epoch := m.Epoch()
	require.NoError(t, m.GoBack())

	// The in-flight evaluation result arrives late and must be dropped.
	assert.False(t, m.TryAppend(epoch, domain.NewFeedback("late", 9)))
	assert.Equal(t, domain.PhaseModeSelection, m.Phase())
	assert.Empty(t, m.Transcript())
}

func TestTryAppend_DiscardsAfterComplete(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	epoch := m.Epoch()
	_, err := m.CompleteInterview()
	require.NoError(t, err)

	assert.False(t, m.TryAppend(epoch, domain.NewFeedback("late", 9)))
	assert.Empty(t, m.Transcript())
}

// --- CompleteInterview ---

func TestCompleteInterview_ScoreFromTranscript(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)
	require.NoError(t, m.Append(domain.NewQuestion("q1")))
	require.NoError(t, m.Append(domain.NewAnswer("a1")))
	require.NoError(t, m.Append(domain.NewFeedback("f1", 6)))
	require.NoError(t, m.Append(domain.NewQuestion("q2")))
	require.NoError(t, m.Append(domain.NewAnswer("a2")))
	require.NoError(t, m.Append(domain.NewFeedback("f2", 10)))

	score, err := m.CompleteInterview()
	require.NoError(t, err)

	assert.Equal(t, 8.0, score)
	assert.Equal(t, domain.PhaseSummary, m.Phase())
	got, ok := m.FinalScore()
	require.True(t, ok)
	assert.Equal(t, 8.0, got)
}

func TestCompleteInterview_EmptyTranscript(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	score, err := m.CompleteInterview()
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, domain.PhaseSummary, m.Phase())
}

func TestCompleteInterview_WrongPhase(t *testing.T) {
	m := newMachine(t)

	_, err := m.CompleteInterview()
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	_, ok := m.FinalScore()
	assert.False(t, ok)
}

func TestCompleteInterview_Callback(t *testing.T) {
	var gotTranscript []domain.Message
	var gotScore float64
	calls := 0

	m := newMachine(t, WithOnComplete(func(transcript []domain.Message, score float64) {
		calls++
		gotTranscript = transcript
		gotScore = score
	}))
	toSummary(t, m)

	assert.Equal(t, 1, calls)
	assert.Len(t, gotTranscript, 3)
	assert.Equal(t, 8.0, gotScore)
}

func TestCompleteInterview_FreezesTranscript(t *testing.T) {
	m := newMachine(t)
	toSummary(t, m)

	err := m.Append(domain.NewQuestion("after the fact"))
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Len(t, m.Transcript(), 3)
}

// --- GoBack ---

func TestGoBack_FromModeSelection_ClearsSelections(t *testing.T) {
	m := newMachine(t)
	require.NoError(t, m.SelectRoleAndDomain("system-designer", "Scalability"))

	require.NoError(t, m.GoBack())

	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	_, ok := m.Role()
	assert.False(t, ok)
	_, ok = m.Domain()
	assert.False(t, ok)
}

func TestGoBack_FromInterview_ClearsModeAndTranscript(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)
	require.NoError(t, m.Append(domain.NewQuestion("q")))

	require.NoError(t, m.GoBack())

	assert.Equal(t, domain.PhaseModeSelection, m.Phase())
	_, ok := m.Mode()
	assert.False(t, ok)
	assert.Empty(t, m.Transcript())

	// Role and domain survive a back-step from the interview.
	role, ok := m.Role()
	require.True(t, ok)
	assert.Equal(t, "software-engineer", role)
}

func TestGoBack_IllegalPhases(t *testing.T) {
	t.Run("role selection", func(t *testing.T) {
		m := newMachine(t)
		assert.ErrorIs(t, m.GoBack(), domain.ErrIllegalTransition)
		assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	})

	t.Run("summary", func(t *testing.T) {
		m := newMachine(t)
		toSummary(t, m)
		assert.ErrorIs(t, m.GoBack(), domain.ErrIllegalTransition)
		assert.Equal(t, domain.PhaseSummary, m.Phase())
	})
}

// --- StartNew ---

func TestStartNew_ResetsEverything(t *testing.T) {
	m := newMachine(t)
	toSummary(t, m)

	require.NoError(t, m.StartNew())

	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	_, ok := m.Role()
	assert.False(t, ok)
	_, ok = m.Domain()
	assert.False(t, ok)
	_, ok = m.Mode()
	assert.False(t, ok)
	assert.Empty(t, m.Transcript())
	_, ok = m.FinalScore()
	assert.False(t, ok)
}

func TestStartNew_OnlyFromSummary(t *testing.T) {
	m := newMachine(t)
	toInterview(t, m)

	assert.ErrorIs(t, m.StartNew(), domain.ErrIllegalTransition)
	assert.Equal(t, domain.PhaseInterview, m.Phase())
}

func TestStartNew_Callback(t *testing.T) {
	calls := 0
	m := newMachine(t, WithOnReset(func() { calls++ }))
	toSummary(t, m)

	require.NoError(t, m.StartNew())
	assert.Equal(t, 1, calls)

	// A second StartNew from role selection is illegal and must not fire again.
	assert.ErrorIs(t, m.StartNew(), domain.ErrIllegalTransition)
	assert.Equal(t, 1, calls)
}

func TestStartNew_FullCycleTwice(t *testing.T) {
	m := newMachine(t)

	for i := 0; i < 2; i++ {
		toSummary(t, m)
		require.NoError(t, m.StartNew())
		assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
	}
}

// --- Snapshot ---

func TestSnapshot(t *testing.T) {
	m := newMachine(t)
	toSummary(t, m)

	snap := m.Snapshot()
	assert.Equal(t, domain.PhaseSummary, snap.Phase)
	assert.Equal(t, "software-engineer", snap.RoleID)
	assert.Equal(t, "Backend", snap.Domain)
	assert.Equal(t, domain.ModeTechnical, snap.Mode)
	assert.Len(t, snap.Transcript, 3)
	assert.True(t, snap.Scored)
	assert.Equal(t, 8.0, snap.FinalScore)
}

// Direct RoleSelection -> Interview is impossible: SelectMode and Append both
// refuse before a role is chosen.
func TestNoShortcutToInterview(t *testing.T) {
	m := newMachine(t)

	assert.ErrorIs(t, m.SelectMode(domain.ModeTechnical), domain.ErrIllegalTransition)
	assert.ErrorIs(t, m.Append(domain.NewQuestion("q")), domain.ErrIllegalTransition)
	_, err := m.CompleteInterview()
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, domain.PhaseRoleSelection, m.Phase())
}
