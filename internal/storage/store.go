package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clickchess/internal/protocol"
)

// Journal persists the matches this client plays. A nil *Journal is a
// valid no-op receiver, so callers never branch on whether persistence is
// configured.
type Journal struct {
	db *gorm.DB
}

// NewJournal creates a journal over a gorm DB.
func NewJournal(db *gorm.DB) *Journal {
	if db == nil {
		return nil
	}
	return &Journal{db: db}
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// StartMatch opens a journal row when the first snapshot for a room
// arrives and returns its id.
func (j *Journal) StartMatch(ctx context.Context, roomID, serverURL, playerName string, snap *protocol.Snapshot, startedAt time.Time) (uuid.UUID, error) {
	if j == nil {
		return uuid.Nil, nil
	}
	m := Match{
		ID:           uuid.New(),
		RoomID:       roomID,
		ServerURL:    serverURL,
		PlayerColor:  string(snap.PlayerColor),
		PlayerName:   playerName,
		OpponentName: snap.OpponentName,
		Active:       true,
		StartedAt:    startedAt,
	}
	if err := j.db.WithContext(ctx).Create(&m).Error; err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

// completeUpdates records a verdict. Only a verdict ever sets
// completed_at; FetchStats counts on that.
func completeUpdates(over *protocol.GameOver, completedAt time.Time) map[string]any {
	return map[string]any{
		"result":       over.Result,
		"checkmate":    over.IsCheckmate,
		"stalemate":    over.IsStalemate,
		"active":       false,
		"completed_at": completedAt,
	}
}

// abandonUpdates closes a row without a verdict, so completed_at stays
// null and the match never counts as completed.
func abandonUpdates() map[string]any {
	return map[string]any{
		"result": "abandoned",
		"active": false,
	}
}

// CompleteMatch closes the row with the peer's verdict.
func (j *Journal) CompleteMatch(ctx context.Context, matchID uuid.UUID, over *protocol.GameOver, completedAt time.Time) error {
	if j == nil {
		return nil
	}
	return j.db.WithContext(ctx).Model(&Match{}).Where("id = ?", matchID).
		Updates(completeUpdates(over, completedAt)).Error
}

// AbandonMatch closes the row without a verdict (disconnect, quit).
func (j *Journal) AbandonMatch(ctx context.Context, matchID uuid.UUID) error {
	if j == nil {
		return nil
	}
	return j.db.WithContext(ctx).Model(&Match{}).Where("id = ? AND active = ?", matchID, true).
		Updates(abandonUpdates()).Error
}

// Recent returns the newest matches, freshest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Match, error) {
	if j == nil {
		return nil, nil
	}
	var out []Match
	err := j.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Stats aggregates the journal for a quick summary line.
type Stats struct {
	Played    int64 `json:"played"`
	Completed int64 `json:"completed"`
	Active    int64 `json:"active"`
}

// FetchStats counts journaled matches.
func (j *Journal) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if j == nil {
		return stats, nil
	}
	if err := j.db.WithContext(ctx).Model(&Match{}).Count(&stats.Played).Error; err != nil {
		return stats, err
	}
	if err := j.db.WithContext(ctx).Model(&Match{}).Where("active = ?", true).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := j.db.WithContext(ctx).Model(&Match{}).Where("completed_at IS NOT NULL").Count(&stats.Completed).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
