// Package interview drives the question/answer/feedback loop of a session.
package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/evaluate"
	"github.com/prepdeck/prepdeck/internal/logging"
	"github.com/prepdeck/prepdeck/internal/session"
)

// ErrSuperseded means an evaluation result arrived after the session had
// navigated away and was discarded. The transcript is untouched.
var ErrSuperseded = errors.New("turn superseded")

// QuestionSource supplies question text for a role, domain, and mode.
// It signals domain.ErrNoMoreQuestions when exhausted.
type QuestionSource interface {
	Next(roleID, domainName string, mode domain.Mode, turn int) (string, error)
}

// turnState tracks where the engine sits inside the current turn.
type turnState int

const (
	stateAskQuestion turnState = iota // next step is presenting a question
	stateAwaitAnswer                  // question committed, waiting for the answer
	stateAwaitEval                    // answer committed, feedback still missing
)

// Engine runs interview turns against a session machine. It is a single-owner
// object: one engine per interview phase, driven by one caller at a time. The
// only suspending step is the evaluation call; the question and answer are
// committed to the transcript before it is made.
type Engine struct {
	machine  *session.Machine
	source   QuestionSource
	eval     evaluate.Evaluator
	log      *logging.Logger
	maxTurns int

	state    turnState
	turn     int
	question string
	answer   string
}

// NewEngine creates a turn engine. maxTurns of 0 means the interview runs
// until the question source is exhausted.
func NewEngine(m *session.Machine, source QuestionSource, eval evaluate.Evaluator, maxTurns int, log *logging.Logger) *Engine {
	return &Engine{
		machine:  m,
		source:   source,
		eval:     eval,
		log:      log.Sub("interview"),
		maxTurns: maxTurns,
	}
}

// Turn returns the number of completed turns.
func (e *Engine) Turn() int { return e.turn }

// AwaitingAnswer reports whether a question is pending an answer.
func (e *Engine) AwaitingAnswer() bool { return e.state == stateAwaitAnswer }

// AwaitingEvaluation reports whether the last answer still needs feedback.
func (e *Engine) AwaitingEvaluation() bool { return e.state == stateAwaitEval }

// Ask commits the next question to the transcript and returns it. When the
// turn budget or the question source is exhausted it finalizes the interview
// instead and returns done=true with the final score in place of a question.
func (e *Engine) Ask() (domain.Message, bool, error) {
	if e.state != stateAskQuestion {
		return domain.Message{}, false, fmt.Errorf("%w: question already pending", domain.ErrIllegalTransition)
	}

	if e.maxTurns > 0 && e.turn >= e.maxTurns {
		return e.finish()
	}

	roleID, _ := e.machine.Role()
	domainName, _ := e.machine.Domain()
	mode, _ := e.machine.Mode()

	text, err := e.source.Next(roleID, domainName, mode, e.turn)
	if err != nil {
		if errors.Is(err, domain.ErrNoMoreQuestions) {
			e.log.Info().Int("turns", e.turn).Msg("question source exhausted, finishing interview")
			return e.finish()
		}
		return domain.Message{}, false, fmt.Errorf("fetching question: %w", err)
	}

	msg := domain.NewQuestion(text)
	if err := e.machine.Append(msg); err != nil {
		return domain.Message{}, false, err
	}

	e.question = text
	e.state = stateAwaitAnswer
	return msg, false, nil
}

// Submit commits the user's answer verbatim, then evaluates it. On evaluator
// failure the answer stays committed and the turn can be retried with
// RetryEvaluation; no partial feedback is ever appended.
func (e *Engine) Submit(ctx context.Context, answer string) (domain.Message, error) {
	if e.state != stateAwaitAnswer {
		return domain.Message{}, fmt.Errorf("%w: no question awaiting an answer", domain.ErrIllegalTransition)
	}

	if err := e.machine.Append(domain.NewAnswer(answer)); err != nil {
		return domain.Message{}, err
	}

	e.answer = answer
	e.state = stateAwaitEval
	return e.evaluateTurn(ctx)
}

// RetryEvaluation re-runs the evaluation for the committed question/answer
// pair after an ErrEvaluationUnavailable failure.
func (e *Engine) RetryEvaluation(ctx context.Context) (domain.Message, error) {
	if e.state != stateAwaitEval {
		return domain.Message{}, fmt.Errorf("%w: no evaluation pending", domain.ErrIllegalTransition)
	}
	return e.evaluateTurn(ctx)
}

// Finish finalizes the interview early, freezing the transcript and moving
// the session to the summary phase.
func (e *Engine) Finish() (float64, error) {
	_, _, err := e.finish()
	if err != nil {
		return 0, err
	}
	score, _ := e.machine.FinalScore()
	return score, nil
}

// evaluateTurn runs the suspending evaluation call. The epoch captured before
// the call guards the transcript: if the user navigated away while the call
// was in flight, the result is dropped.
func (e *Engine) evaluateTurn(ctx context.Context) (domain.Message, error) {
	epoch := e.machine.Epoch()

	res, err := e.eval.Evaluate(ctx, e.question, e.answer)
	if err != nil {
		e.log.Error().Int("turn", e.turn).Err(err).Msg("evaluation failed")
		return domain.Message{}, err
	}

	msg := domain.NewFeedback(res.Feedback, res.Score)
	if !e.machine.TryAppend(epoch, msg) {
		e.log.Debug().Int("turn", e.turn).Msg("session moved on, dropping evaluation result")
		e.state = stateAskQuestion
		return domain.Message{}, ErrSuperseded
	}

	e.turn++
	e.question = ""
	e.answer = ""
	e.state = stateAskQuestion
	return msg, nil
}

func (e *Engine) finish() (domain.Message, bool, error) {
	score, err := e.machine.CompleteInterview()
	if err != nil {
		return domain.Message{}, false, err
	}
	e.log.Info().Int("turns", e.turn).Float64("finalScore", score).Msg("interview complete")
	return domain.Message{}, true, nil
}
