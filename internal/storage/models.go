package storage

import (
	"time"

	"github.com/google/uuid"
)

// Match is one game this client played, journaled locally.
type Match struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RoomID       string    `gorm:"index"`
	ServerURL    string
	PlayerColor  string
	PlayerName   string
	OpponentName string
	Result       string
	Checkmate    bool
	Stalemate    bool
	Active       bool `gorm:"index"`
	StartedAt    time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
