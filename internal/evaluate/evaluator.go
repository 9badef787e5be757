// Package evaluate scores interview answers.
//
// The turn engine depends only on the Evaluator interface; the built-in
// heuristic scorer is one implementation, and a scripted double is provided
// for tests.
package evaluate

import "context"

// Result is the outcome of evaluating one answer.
type Result struct {
	Feedback string  `json:"feedback"`
	Score    float64 `json:"score"` // 0-10
}

// Evaluator grades an answer to a question.
type Evaluator interface {
	// Evaluate returns feedback text and a 0-10 score for the answer.
	Evaluate(ctx context.Context, question, answer string) (Result, error)

	// Name identifies the evaluator for logging.
	Name() string
}

// Scripted is a test double for Evaluator.
type Scripted struct {
	EvaluatorName string
	EvaluateFunc  func(ctx context.Context, question, answer string) (Result, error)
}

func (s *Scripted) Name() string {
	if s.EvaluatorName != "" {
		return s.EvaluatorName
	}
	return "scripted"
}

func (s *Scripted) Evaluate(ctx context.Context, question, answer string) (Result, error) {
	if s.EvaluateFunc != nil {
		return s.EvaluateFunc(ctx, question, answer)
	}
	return Result{Feedback: "scripted feedback", Score: 5}, nil
}
