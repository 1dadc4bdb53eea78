package domain

import (
	"context"
	"time"
)

// ChatSession represents one continuous conversation between the current
// user and exactly one agent. The session id is client-generated and
// stable for the session's lifetime; the agent never changes after
// creation.
type ChatSession struct {
	SessionID string    `json:"session_id"`
	UserID    int       `json:"usuario_id"`
	AgentID   int       `json:"agente_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// StoredTurn is one persisted turn inside a history entry. A nil AgentID
// marks a user turn; a concrete agent reference marks a bot turn.
type StoredTurn struct {
	ID        int       `json:"id"`
	UserID    int       `json:"usuario_id"`
	AgentID   *int      `json:"agente_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEntry summarizes a previously stored chat session as returned by
// the history listing endpoint. StorageID keys deletion; ChatID keys the
// stored turns and becomes the session id again on resume.
type HistoryEntry struct {
	StorageID string       `json:"_id" validate:"required"`
	ChatID    string       `json:"id" validate:"required"`
	AgentID   int          `json:"agente_id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
	Turns     []StoredTurn `json:"messages"`
}

// HistoryRepository defines remote access to the current user's stored
// sessions.
type HistoryRepository interface {
	ListHistory(ctx context.Context) ([]HistoryEntry, error)
	// DeleteSession removes one stored session by its storage id. Deleting
	// an id the server no longer knows surfaces the server's error body in
	// the returned error; callers treat it as non-fatal.
	DeleteSession(ctx context.Context, storageID string) error
}
