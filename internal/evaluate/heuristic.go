package evaluate

import (
	"context"
	"strings"
	"unicode"
)

// stopwords are skipped when matching answer terms against the question.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "how": true, "in": true,
	"is": true, "it": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "to": true, "what": true, "when": true, "where": true,
	"which": true, "why": true, "with": true, "would": true, "you": true,
	"your": true, "describe": true, "explain": true, "tell": true, "me": true,
	"about": true, "time": true, "do": true, "did": true,
}

// Heuristic is a deterministic local evaluator. It scores an answer from its
// length and its term overlap with the question, then picks feedback text by
// score band. It never fails and needs no network.
type Heuristic struct{}

// NewHeuristic creates the built-in evaluator.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Name() string { return "heuristic" }

// Evaluate scores the answer 0-10. Empty answers score 0.
func (h *Heuristic) Evaluate(_ context.Context, question, answer string) (Result, error) {
	words := tokenize(answer)
	if len(words) == 0 {
		return Result{
			Feedback: "No answer given. Walk through your thinking out loud, even when unsure.",
			Score:    0,
		}, nil
	}

	score := lengthScore(len(words)) + overlapScore(tokenize(question), words)
	if score > 10 {
		score = 10
	}

	return Result{Feedback: feedbackFor(score), Score: score}, nil
}

// lengthScore rewards substance up to a plateau: 1 point per 8 words, max 6.
func lengthScore(words int) float64 {
	s := float64(words) / 8
	if s > 6 {
		return 6
	}
	return s
}

// overlapScore rewards answers that address the question's terms: 1 point per
// matched term, max 4.
func overlapScore(question, answer []string) float64 {
	answerSet := make(map[string]bool, len(answer))
	for _, w := range answer {
		answerSet[w] = true
	}

	var matched float64
	for _, w := range question {
		if stopwords[w] {
			continue
		}
		if answerSet[w] {
			matched++
		}
	}
	if matched > 4 {
		return 4
	}
	return matched
}

func feedbackFor(score float64) string {
	switch {
	case score >= 8.5:
		return "Excellent answer. Specific, relevant, and well developed."
	case score >= 7:
		return "Strong answer. Add a concrete example to make it stick."
	case score >= 5:
		return "Decent answer, but it stays general. Tie it back to the question's specifics."
	case score >= 3:
		return "Thin answer. Expand on the key terms the question raises and structure your response."
	default:
		return "This needs more. Restate the question in your own words, then address each part."
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
