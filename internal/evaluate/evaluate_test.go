package evaluate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/logging"
)

// --- Heuristic ---

func TestHeuristic_EmptyAnswer(t *testing.T) {
	h := NewHeuristic()

	res, err := h.Evaluate(context.Background(), "Explain CAP theorem", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.NotEmpty(t, res.Feedback)
}

func TestHeuristic_Deterministic(t *testing.T) {
	h := NewHeuristic()
	q := "Explain a hash table's collision resolution strategies"
	a := "Chaining stores colliding entries in a list per bucket, while open addressing probes for the next free slot"

	first, err := h.Evaluate(context.Background(), q, a)
	require.NoError(t, err)
	second, err := h.Evaluate(context.Background(), q, a)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHeuristic_RelevantBeatsIrrelevant(t *testing.T) {
	h := NewHeuristic()
	q := "Explain a hash table's collision resolution strategies"

	relevant, err := h.Evaluate(context.Background(), q,
		"A hash table handles collision with chaining or open addressing, and resolution cost depends on load factor")
	require.NoError(t, err)

	irrelevant, err := h.Evaluate(context.Background(), q,
		"I enjoy cooking pasta on weekends and sometimes go hiking with friends in the mountains nearby")
	require.NoError(t, err)

	assert.Greater(t, relevant.Score, irrelevant.Score)
}

func TestHeuristic_ScoreBounded(t *testing.T) {
	h := NewHeuristic()
	long := ""
	for i := 0; i < 200; i++ {
		long += "collision resolution hash table chaining addressing load factor "
	}

	res, err := h.Evaluate(context.Background(), "Explain a hash table's collision resolution strategies", long)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Score, 10.0)
	assert.GreaterOrEqual(t, res.Score, 0.0)
}

// --- Scripted ---

func TestScripted_Defaults(t *testing.T) {
	s := &Scripted{}

	res, err := s.Evaluate(context.Background(), "q", "a")
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Score)
	assert.Equal(t, "scripted", s.Name())
}

func TestScripted_CustomFunc(t *testing.T) {
	s := &Scripted{
		EvaluatorName: "rigged",
		EvaluateFunc: func(_ context.Context, q, a string) (Result, error) {
			return Result{Feedback: q + "/" + a, Score: 9}, nil
		},
	}

	res, err := s.Evaluate(context.Background(), "q1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "q1/a1", res.Feedback)
	assert.Equal(t, 9.0, res.Score)
	assert.Equal(t, "rigged", s.Name())
}

// --- Retry ---

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	inner := &Scripted{EvaluateFunc: func(_ context.Context, _, _ string) (Result, error) {
		calls++
		return Result{Feedback: "ok", Score: 7}, nil
	}}

	r := WithRetry(inner, 3, logging.New(nil, "silent"))
	res, err := r.Evaluate(context.Background(), "q", "a")
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.Score)
	assert.Equal(t, 1, calls)
}

func TestRetry_RecoversAfterFailures(t *testing.T) {
	calls := 0
	inner := &Scripted{EvaluateFunc: func(_ context.Context, _, _ string) (Result, error) {
		calls++
		if calls < 3 {
			return Result{}, errors.New("timeout")
		}
		return Result{Feedback: "finally", Score: 6}, nil
	}}

	r := WithRetry(inner, 3, logging.New(nil, "silent"))
	res, err := r.Evaluate(context.Background(), "q", "a")
	require.NoError(t, err)
	assert.Equal(t, 6.0, res.Score)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	inner := &Scripted{EvaluateFunc: func(_ context.Context, _, _ string) (Result, error) {
		calls++
		return Result{}, errors.New("malformed result")
	}}

	r := WithRetry(inner, 4, logging.New(nil, "silent"))
	_, err := r.Evaluate(context.Background(), "q", "a")

	assert.ErrorIs(t, err, domain.ErrEvaluationUnavailable)
	assert.Contains(t, err.Error(), "malformed result")
	assert.Equal(t, 4, calls)
}

func TestRetry_SamePairEachAttempt(t *testing.T) {
	var pairs [][2]string
	inner := &Scripted{EvaluateFunc: func(_ context.Context, q, a string) (Result, error) {
		pairs = append(pairs, [2]string{q, a})
		return Result{}, errors.New("nope")
	}}

	r := WithRetry(inner, 3, logging.New(nil, "silent"))
	_, err := r.Evaluate(context.Background(), "the question", "the answer")
	require.Error(t, err)

	require.Len(t, pairs, 3)
	for _, p := range pairs {
		assert.Equal(t, [2]string{"the question", "the answer"}, p)
	}
}

func TestRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &Scripted{EvaluateFunc: func(_ context.Context, _, _ string) (Result, error) {
		t.Fatal("inner evaluator must not run after cancellation")
		return Result{}, nil
	}}

	r := WithRetry(inner, 3, logging.New(nil, "silent"))
	_, err := r.Evaluate(ctx, "q", "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_MinimumOneAttempt(t *testing.T) {
	calls := 0
	inner := &Scripted{EvaluateFunc: func(_ context.Context, _, _ string) (Result, error) {
		calls++
		return Result{Score: 1}, nil
	}}

	r := WithRetry(inner, 0, logging.New(nil, "silent"))
	_, err := r.Evaluate(context.Background(), "q", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
