package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind classifies one unit of interview dialogue.
type MessageKind string

const (
	KindQuestion MessageKind = "question"
	KindAnswer   MessageKind = "answer"
	KindFeedback MessageKind = "feedback"
)

// Valid reports whether k is a known message kind.
func (k MessageKind) Valid() bool {
	return k == KindQuestion || k == KindAnswer || k == KindFeedback
}

// Message is a single entry in an interview transcript. Score is set only on
// feedback messages and grades the immediately preceding answer.
type Message struct {
	ID        string      `json:"id"`
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	Score     *float64    `json:"score,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewQuestion builds a question message with a fresh ID and timestamp.
func NewQuestion(content string) Message {
	return newMessage(KindQuestion, content, nil)
}

// NewAnswer builds an answer message with a fresh ID and timestamp.
func NewAnswer(content string) Message {
	return newMessage(KindAnswer, content, nil)
}

// NewFeedback builds a feedback message carrying the evaluation score.
func NewFeedback(content string, score float64) Message {
	return newMessage(KindFeedback, content, &score)
}

func newMessage(kind MessageKind, content string, score *float64) Message {
	return Message{
		ID:        uuid.New().String(),
		Kind:      kind,
		Content:   content,
		Score:     score,
		Timestamp: time.Now(),
	}
}
