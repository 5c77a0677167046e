package game

import (
	"testing"
	"time"

	"clickchess/internal/board"
	"clickchess/internal/protocol"
)

func timedSnapshot(turn board.Color, white, black float64) *protocol.Snapshot {
	return &protocol.Snapshot{
		PlayerColor: board.White,
		CurrentTurn: turn,
		WhiteTime:   white,
		BlackTime:   black,
	}
}

func TestClockRunningSideCountsDown(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var c clocks
	c.sync(timedSnapshot(board.White, 300, 300), true, t0)

	white := c.remaining(board.White, t0.Add(5*time.Second))
	black := c.remaining(board.Black, t0.Add(5*time.Second))

	if white != 295*time.Second {
		t.Fatalf("white = %v, want 4m55s", white)
	}
	if black != 300*time.Second {
		t.Fatalf("idle side must not move, black = %v", black)
	}
}

func TestClockNeverNegative(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var c clocks
	c.sync(timedSnapshot(board.White, 3, 300), true, t0)

	if got := c.remaining(board.White, t0.Add(10*time.Second)); got != 0 {
		t.Fatalf("clock went negative: %v", got)
	}
}

func TestClockKeepsAnchorWhenTurnUnchanged(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var c clocks
	c.sync(timedSnapshot(board.White, 300, 300), true, t0)

	// A refresh for the same turn updates the anchored values but must not
	// reset the running mark to the arrival instant.
	c.sync(timedSnapshot(board.White, 298, 300), false, t0.Add(4*time.Second))

	if got := c.remaining(board.White, t0.Add(6*time.Second)); got != 292*time.Second {
		t.Fatalf("white = %v, want 4m52s (elapsed measured from the original mark)", got)
	}
}

func TestClockRemarksOnTurnChange(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var c clocks
	c.sync(timedSnapshot(board.White, 300, 300), true, t0)
	c.sync(timedSnapshot(board.Black, 297, 300), true, t0.Add(3*time.Second))

	at := t0.Add(5 * time.Second)
	if got := c.remaining(board.White, at); got != 297*time.Second {
		t.Fatalf("off-turn white should hold the anchored value, got %v", got)
	}
	if got := c.remaining(board.Black, at); got != 298*time.Second {
		t.Fatalf("black = %v, want 4m58s", got)
	}
}

// Hiding the page banks the elapsed time and freezes prediction; showing it
// resumes from the restore instant, so hidden seconds never count.
func TestClockHiddenIntervalDoesNotCount(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var c clocks
	c.sync(timedSnapshot(board.White, 300, 300), true, t0)

	c.hide(t0.Add(2 * time.Second))
	if got := c.remaining(board.White, t0.Add(6*time.Second)); got != 298*time.Second {
		t.Fatalf("hidden clock drifted: %v", got)
	}

	c.show(t0.Add(7 * time.Second))
	if got := c.remaining(board.White, t0.Add(9*time.Second)); got != 296*time.Second {
		t.Fatalf("after restore, white = %v, want 4m56s", got)
	}
}

func TestClockStopFreezesBothSides(t *testing.T) {
	t0 := time.Unix(1000, 0)
	var c clocks
	c.sync(timedSnapshot(board.Black, 120, 45), true, t0)
	c.stop(t0.Add(5 * time.Second))

	if got := c.remaining(board.Black, t0.Add(60*time.Second)); got != 40*time.Second {
		t.Fatalf("stopped black = %v, want 40s", got)
	}
	if got := c.remaining(board.White, t0.Add(60*time.Second)); got != 120*time.Second {
		t.Fatalf("stopped white = %v, want 2m0s", got)
	}
}

// Session-level: a five second hidden stretch mid-turn must leave the
// displayed countdown exactly where the elapsed visible time puts it.
func TestSessionVisibilityPause(t *testing.T) {
	s, _ := newTestSession()
	t0 := time.Unix(1000, 0)
	now := t0
	s.Now = func() time.Time { return now }

	push(t, s, whiteToMove())

	now = t0.Add(3 * time.Second)
	s.SetVisible(false)
	now = t0.Add(8 * time.Second)
	s.SetVisible(true)

	white, black := s.ClockTimes(t0.Add(10 * time.Second))
	if white != 295*time.Second {
		t.Fatalf("white = %v, want 4m55s (3s visible before hide + 2s after)", white)
	}
	if black != 300*time.Second {
		t.Fatalf("black = %v, want untouched 5m0s", black)
	}
}
