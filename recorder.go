package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clickchess/internal/logging"
	"clickchess/internal/protocol"
	"clickchess/internal/storage"
)

// recorder journals match lifecycle off the inbound message stream: a row
// is opened on the first snapshot and closed by the peer's verdict or by
// the user quitting. Moves are not persisted, only the match summary.
type recorder struct {
	journal   *storage.Journal
	serverURL string
	name      string

	mu      sync.Mutex
	matchID uuid.UUID
	open    bool
}

func newRecorder(journal *storage.Journal, serverURL, name string) *recorder {
	return &recorder{journal: journal, serverURL: serverURL, name: name}
}

// observe journals inbound traffic. Unknown payloads are ignored.
func (r *recorder) observe(ctx context.Context, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		return
	}
	switch m := msg.(type) {
	case *protocol.Snapshot:
		r.mu.Lock()
		first := !r.open
		r.open = true
		r.mu.Unlock()
		if !first {
			return
		}
		id, err := r.journal.StartMatch(ctx, m.RoomID, r.serverURL, r.name, m, time.Now())
		if err != nil {
			logging.Warnf("journal start: %v", err)
			return
		}
		r.mu.Lock()
		r.matchID = id
		r.mu.Unlock()

	case *protocol.GameOver:
		r.mu.Lock()
		id := r.matchID
		open := r.open
		r.open = false
		r.mu.Unlock()
		if !open {
			return
		}
		if err := r.journal.CompleteMatch(ctx, id, m, time.Now()); err != nil {
			logging.Warnf("journal complete: %v", err)
		}
	}
}

// abandon closes the journal row when the user quits mid-game.
func (r *recorder) abandon(ctx context.Context) {
	r.mu.Lock()
	id := r.matchID
	open := r.open
	r.open = false
	r.mu.Unlock()
	if !open {
		return
	}
	if err := r.journal.AbandonMatch(ctx, id); err != nil {
		logging.Warnf("journal abandon: %v", err)
	}
}
