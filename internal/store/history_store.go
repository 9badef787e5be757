package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck/internal/domain"
)

// HistoryRecord is one archived interview.
type HistoryRecord struct {
	ID          string           `json:"id"`
	RoleID      string           `json:"roleId"`
	Domain      string           `json:"domain"`
	Mode        domain.Mode      `json:"mode"`
	FinalScore  float64          `json:"finalScore"`
	Turns       int              `json:"turns"`
	CompletedAt time.Time        `json:"completedAt"`
	Messages    []domain.Message `json:"messages,omitempty"`
}

// HistoryStore archives completed interviews. The session core never reads
// from it; it is write-only reporting fed by the completion callback.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a history store using the given database.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Record archives a completed interview with its transcript.
func (h *HistoryStore) Record(rec HistoryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	tx, err := h.db.sql.Begin()
	if err != nil {
		return "", fmt.Errorf("begin history insert: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO interviews (id, role_id, domain, mode, final_score, turns, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RoleID, rec.Domain, string(rec.Mode), rec.FinalScore, rec.Turns,
		rec.CompletedAt.Format(time.DateTime),
	)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("inserting interview: %w", err)
	}

	for _, msg := range rec.Messages {
		var score sql.NullFloat64
		if msg.Score != nil {
			score = sql.NullFloat64{Float64: *msg.Score, Valid: true}
		}
		_, err = tx.Exec(
			`INSERT INTO interview_messages (interview_id, message_id, kind, content, score, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, msg.ID, string(msg.Kind), msg.Content, score,
			msg.Timestamp.Format(time.DateTime),
		)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("inserting message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit history insert: %w", err)
	}

	h.db.log.Info().
		Str("id", rec.ID).
		Str("role", rec.RoleID).
		Float64("finalScore", rec.FinalScore).
		Msg("interview archived")
	return rec.ID, nil
}

// List returns archived interviews newest first, without transcripts.
// A limit of 0 defaults to 20.
func (h *HistoryStore) List(limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.sql.Query(
		`SELECT id, role_id, domain, mode, final_score, turns, completed_at
		 FROM interviews ORDER BY completed_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Get returns one archived interview with its full transcript, or nil if not
// found.
func (h *HistoryStore) Get(id string) (*HistoryRecord, error) {
	row := h.db.sql.QueryRow(
		`SELECT id, role_id, domain, mode, final_score, turns, completed_at
		 FROM interviews WHERE id = ?`, id,
	)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.Messages, err = h.loadMessages(id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (h *HistoryStore) loadMessages(interviewID string) ([]domain.Message, error) {
	rows, err := h.db.sql.Query(
		`SELECT message_id, kind, content, score, timestamp
		 FROM interview_messages WHERE interview_id = ? ORDER BY id`, interviewID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var kind, ts string
		var score sql.NullFloat64

		if err := rows.Scan(&msg.ID, &kind, &msg.Content, &score, &ts); err != nil {
			return nil, err
		}
		msg.Kind = domain.MessageKind(kind)
		if score.Valid {
			v := score.Float64
			msg.Score = &v
		}
		msg.Timestamp, _ = time.Parse(time.DateTime, ts)

		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (HistoryRecord, error) {
	var rec HistoryRecord
	var mode, completedAt string

	err := s.Scan(&rec.ID, &rec.RoleID, &rec.Domain, &mode, &rec.FinalScore, &rec.Turns, &completedAt)
	if err != nil {
		return rec, err
	}

	rec.Mode = domain.Mode(mode)
	rec.CompletedAt, _ = time.Parse(time.DateTime, completedAt)
	return rec, nil
}
