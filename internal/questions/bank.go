// Package questions supplies interview questions keyed by role, domain, and mode.
package questions

import (
	"fmt"
	"strings"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// technical holds per-role technical questions. {domain} is replaced with the
// selected domain at delivery time.
var technical = map[string][]string{
	"software-engineer": {
		"Explain a hash table's collision resolution strategies.",
		"How would you design the error handling strategy for a {domain} service?",
		"Walk me through what happens when a request times out between two services.",
		"How do you decide between optimizing for latency and optimizing for throughput?",
		"Describe how you would profile and fix a memory leak in a long-running process.",
	},
	"product-manager": {
		"How would you define the success metrics for a new {domain} feature?",
		"Walk me through prioritizing a backlog when engineering capacity is cut in half.",
		"How do you decide when to sunset a feature that a small set of users loves?",
		"Describe how you would run a pricing experiment without damaging trust.",
		"How would you write the launch criteria for a risky {domain} bet?",
	},
	"data-analyst": {
		"How would you investigate a sudden 20% drop in a key {domain} metric?",
		"Explain the difference between correlation and causation with a concrete example.",
		"How do you decide which visualization fits a given question about the data?",
		"Walk me through cleaning a dataset with inconsistent categorical labels.",
		"How would you design a dashboard that executives actually use?",
	},
	"data-scientist": {
		"How do you detect and handle overfitting in a {domain} model?",
		"Explain the bias-variance tradeoff and how it drives model selection.",
		"How would you design an offline evaluation for a model before any A/B test?",
		"Walk me through handling severe class imbalance in a classification problem.",
		"When would you choose a simple linear model over a deep network?",
	},
	"system-designer": {
		"Design a rate limiter for a public API. What are the tradeoffs?",
		"How would you approach data partitioning for a {domain} workload?",
		"Explain how you would keep two datastores eventually consistent.",
		"Walk me through your approach to capacity planning for a 10x traffic spike.",
		"How do you design for graceful degradation when a dependency is down?",
	},
}

// behavioral questions are shared across roles; the role's title and domain
// give the candidate the framing.
var behavioral = []string{
	"Tell me about a time you disagreed with a teammate on a {domain} decision. How did it resolve?",
	"Describe a project that failed. What did you change afterwards?",
	"Tell me about a time you had to deliver bad news to a stakeholder.",
	"Describe a situation where you had to learn something unfamiliar under time pressure.",
	"Tell me about the piece of work you are most proud of, and why.",
}

// Bank is a static question source. It is stateless; callers track the turn
// index.
type Bank struct{}

// NewBank creates the built-in question bank.
func NewBank() *Bank {
	return &Bank{}
}

// Next returns the question for the given turn, or domain.ErrNoMoreQuestions
// once the set for the role and mode is exhausted.
func (b *Bank) Next(roleID, domainName string, mode domain.Mode, turn int) (string, error) {
	if turn < 0 {
		return "", fmt.Errorf("negative turn index %d", turn)
	}

	var set []string
	switch mode {
	case domain.ModeBehavioral:
		set = behavioral
	case domain.ModeTechnical:
		var ok bool
		set, ok = technical[roleID]
		if !ok {
			// Unknown roles (config extras) fall back to behavioral framing.
			set = behavioral
		}
	default:
		return "", fmt.Errorf("unknown mode %q", mode)
	}

	if turn >= len(set) {
		return "", fmt.Errorf("%w: role %q mode %q turn %d", domain.ErrNoMoreQuestions, roleID, mode, turn)
	}

	return strings.ReplaceAll(set[turn], "{domain}", domainName), nil
}

// Count returns how many questions exist for a role and mode.
func (b *Bank) Count(roleID string, mode domain.Mode) int {
	if mode == domain.ModeBehavioral {
		return len(behavioral)
	}
	if set, ok := technical[roleID]; ok {
		return len(set)
	}
	return len(behavioral)
}
