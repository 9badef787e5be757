package evaluate

import (
	"context"
	"fmt"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/logging"
)

// Retry wraps an Evaluator with a bounded retry loop. Each attempt reuses the
// same question/answer pair; once attempts are exhausted the error unwraps to
// domain.ErrEvaluationUnavailable.
type Retry struct {
	inner    Evaluator
	attempts int
	log      *logging.Logger
}

// WithRetry builds a retrying evaluator. attempts below 1 is treated as 1.
func WithRetry(inner Evaluator, attempts int, log *logging.Logger) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{inner: inner, attempts: attempts, log: log.Sub("evaluate")}
}

func (r *Retry) Name() string { return r.inner.Name() }

func (r *Retry) Evaluate(ctx context.Context, question, answer string) (Result, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		res, err := r.inner.Evaluate(ctx, question, answer)
		if err == nil {
			return res, nil
		}

		lastErr = err
		r.log.Warn().
			Str("evaluator", r.inner.Name()).
			Int("attempt", attempt).
			Int("max", r.attempts).
			Err(err).
			Msg("evaluation attempt failed")
	}

	return Result{}, fmt.Errorf("%w: %d attempts failed, last: %v",
		domain.ErrEvaluationUnavailable, r.attempts, lastErr)
}
