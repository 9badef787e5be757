// Package summary reduces a finished transcript into a final score and recap.
package summary

import (
	"github.com/prepdeck/prepdeck/internal/domain"
)

// Aggregate computes the arithmetic mean of the given scores in order.
// An empty sequence yields 0, never an error.
func Aggregate(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// Scores extracts feedback scores from a transcript in insertion order.
func Scores(transcript []domain.Message) []float64 {
	var scores []float64
	for _, msg := range transcript {
		if msg.Kind == domain.KindFeedback && msg.Score != nil {
			scores = append(scores, *msg.Score)
		}
	}
	return scores
}

// Recap is the presentable summary of a completed interview.
type Recap struct {
	RoleID     string      `json:"roleId"`
	Domain     string      `json:"domain"`
	Mode       domain.Mode `json:"mode"`
	Turns      int         `json:"turns"`
	Scores     []float64   `json:"scores"`
	FinalScore float64     `json:"finalScore"`
	Verdict    string      `json:"verdict"`
}

// Build assembles a recap from the session's selections and transcript.
func Build(roleID, dom string, mode domain.Mode, transcript []domain.Message, finalScore float64) Recap {
	scores := Scores(transcript)
	return Recap{
		RoleID:     roleID,
		Domain:     dom,
		Mode:       mode,
		Turns:      len(scores),
		Scores:     scores,
		FinalScore: finalScore,
		Verdict:    Verdict(finalScore),
	}
}

// Verdict maps a 0-10 score to a performance label.
func Verdict(score float64) string {
	switch {
	case score >= 8.5:
		return "Outstanding"
	case score >= 7:
		return "Strong"
	case score >= 5:
		return "Solid"
	case score > 0:
		return "Needs practice"
	default:
		return "No answers scored"
	}
}
