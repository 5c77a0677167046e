package game

import (
	"time"

	"clickchess/internal/board"
	"clickchess/internal/protocol"
)

// clocks predicts both countdown displays between authoritative snapshots.
// Only the side to move carries a wall-clock mark; the other side shows its
// last authoritative value unchanged. The predictor never decides a timeout,
// that verdict only ever arrives as a game_over message.
type clocks struct {
	white, black time.Duration
	running      board.Color // side with a live mark, "" when none
	startedAt    time.Time
	hidden       bool
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// sync re-anchors both sides from a snapshot. The mark is reset only when
// the turn changed since the previous snapshot (or on the first one).
func (c *clocks) sync(snap *protocol.Snapshot, turnChanged bool, now time.Time) {
	c.white = secondsToDuration(snap.WhiteTime)
	c.black = secondsToDuration(snap.BlackTime)
	if turnChanged {
		c.running = snap.CurrentTurn
		c.startedAt = now
	}
}

// remaining extrapolates the displayed time for a side, floored at zero.
func (c *clocks) remaining(side board.Color, now time.Time) time.Duration {
	base := c.white
	if side == board.Black {
		base = c.black
	}
	if c.running == side && !c.hidden {
		base -= now.Sub(c.startedAt)
	}
	if base < 0 {
		return 0
	}
	return base
}

// hide freezes the display. Elapsed time up to this instant is banked so
// the hidden interval itself never counts against the side to move.
func (c *clocks) hide(now time.Time) {
	if c.hidden {
		return
	}
	c.bank(now)
	c.hidden = true
}

// show resumes prediction from the restore instant.
func (c *clocks) show(now time.Time) {
	if !c.hidden {
		return
	}
	c.hidden = false
	c.startedAt = now
}

// stop halts prediction entirely (game over).
func (c *clocks) stop(now time.Time) {
	c.bank(now)
	c.running = ""
}

func (c *clocks) bank(now time.Time) {
	if c.running == "" || c.hidden {
		return
	}
	rem := c.remaining(c.running, now)
	if c.running == board.Black {
		c.black = rem
	} else {
		c.white = rem
	}
	c.startedAt = now
}
