package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Source is the display projection of a catalog resource cited by an answer.
type Source struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl"`
}

// ChatTurn is one entry in a conversation. Sources is populated on
// assistant turns only.
type ChatTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Sources   []Source  `json:"sources,omitempty"`
}

// TurnRecord is the persisted archive row for a chat turn. Sources are
// flattened to JSON so the archive table stays a single flat table.
type TurnRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TurnID    string    `gorm:"size:64;not null;uniqueIndex" json:"turn_id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Sources   string    `gorm:"type:text" json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurnRecord flattens a ChatTurn for archival.
func NewTurnRecord(sessionID string, turn ChatTurn) TurnRecord {
	rec := TurnRecord{
		TurnID:    turn.ID,
		SessionID: sessionID,
		Role:      turn.Role,
		Content:   turn.Content,
		CreatedAt: turn.Timestamp,
	}
	if len(turn.Sources) > 0 {
		if b, err := json.Marshal(turn.Sources); err == nil {
			rec.Sources = string(b)
		}
	}
	return rec
}
