// Package game holds the client-side session core: the authoritative
// snapshot store, the selection and gesture state machine, the premove
// queue, the promotion resolver and the clock predictor. All of it is owned
// by one Session and mutated only by the discrete handlers below; the
// render layer is a pure consumer of View snapshots.
package game

import (
	"errors"
	"sync"
	"time"

	"clickchess/internal/board"
	"clickchess/internal/logging"
	"clickchess/internal/protocol"
)

// Session is the state container for one active game. Every handler runs to
// completion under the session mutex, so a pointer event is always processed
// against one consistent snapshot and never interleaves with a message.
type Session struct {
	mu     sync.Mutex
	sender Sender

	// Notify and Now are set before the session is wired to inputs.
	// Now is injectable so clock behavior is deterministic under test.
	Notify Notifier
	Now    func() time.Time

	geom        board.Geometry
	orientation board.Orientation

	cur  *protocol.Snapshot
	prev *protocol.Snapshot

	selected  *board.Square
	drag      *Drag
	premove   *board.Move
	promotion *board.Move

	clocks clocks
	over   bool
	result *protocol.GameOver
}

// NewSession creates a session that submits intents through sender and
// resolves pointer coordinates against geom.
func NewSession(sender Sender, geom board.Geometry) *Session {
	return &Session{
		sender:      sender,
		geom:        geom,
		orientation: board.WhiteBottom,
		Notify:      func(string) {},
		Now:         time.Now,
	}
}

// HandleMessage applies one inbound transport payload. Unknown payloads and
// malformed game messages are swallowed without touching state.
func (s *Session) HandleMessage(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := protocol.Decode(data)
	if err != nil {
		if !errors.Is(err, protocol.ErrUnknownMessage) {
			logging.Debugf("dropping malformed message: %v", err)
		}
		return
	}
	switch m := msg.(type) {
	case *protocol.Snapshot:
		s.applySnapshot(m)
	case *protocol.GameOver:
		s.applyGameOver(m)
	}
}

// applySnapshot replaces the authoritative state wholesale, keeping exactly
// one previous generation for reconciliation.
func (s *Session) applySnapshot(n *protocol.Snapshot) {
	first := s.cur == nil
	s.prev = s.cur
	s.cur = n

	if first {
		s.orientation = board.ForColor(n.PlayerColor)
	}

	// A premove is fire-and-forget-once: any realized move clears it,
	// whether or not it was ours.
	if s.premove != nil && lastMoveChanged(s.prev, n) {
		s.premove = nil
	}

	turnChanged := first || s.prev.CurrentTurn != n.CurrentTurn
	s.clocks.sync(n, turnChanged, s.Now())
}

func (s *Session) applyGameOver(m *protocol.GameOver) {
	s.over = true
	s.result = m
	s.clocks.stop(s.Now())
	s.selected = nil
	s.drag = nil
	s.premove = nil
	s.promotion = nil
}

// lastMoveChanged reports whether a real move occurred between two
// consecutive snapshots.
func lastMoveChanged(prev, next *protocol.Snapshot) bool {
	if prev == nil {
		return next.LastMove != nil
	}
	return !moveEq(prev.LastMove, next.LastMove)
}

func moveEq(a, b *board.Move) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetVisible freezes clock prediction while the page is hidden and resumes
// it from the restore instant. Hidden intervals never count against the
// side to move.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if visible {
		s.clocks.show(s.Now())
	} else {
		s.clocks.hide(s.Now())
	}
}

// FlipBoard toggles which side is drawn at the bottom. Logical squares are
// unaffected.
func (s *Session) FlipBoard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orientation = s.orientation.Flip()
}

// Orientation returns the current display orientation.
func (s *Session) Orientation() board.Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

// Geometry returns the board geometry pointer input is resolved against.
func (s *Session) Geometry() board.Geometry {
	return s.geom
}

// Reset clears every piece of session state for a fresh game ("play again"
// or reconnect). The next snapshot reorients the board.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
	s.prev = nil
	s.selected = nil
	s.drag = nil
	s.premove = nil
	s.promotion = nil
	s.clocks = clocks{}
	s.over = false
	s.result = nil
	s.orientation = board.WhiteBottom
}

// View publishes the current interaction state for rendering. Displayed
// clock values are extrapolated to now; callers invoke this on every
// animation tick.
func (s *Session) View(now time.Time) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Ready:            s.cur != nil,
		Orientation:      s.orientation,
		Selected:         copySquare(s.selected),
		Premove:          copyMove(s.premove),
		PromotionPending: copyMove(s.promotion),
		Over:             s.over,
		Result:           s.result,
	}
	if s.drag != nil {
		d := *s.drag
		v.Dragging = &d
	}
	if s.cur == nil {
		return v
	}

	v.Board = s.cur.Board
	v.PlayerColor = s.cur.PlayerColor
	v.CurrentTurn = s.cur.CurrentTurn
	v.LastMove = copyMove(s.cur.LastMove)
	v.InCheck = s.cur.InCheck
	v.KingPosition = copySquare(s.cur.KingPosition)
	v.OpponentInCheck = s.cur.OpponentInCheck
	v.OpponentKingPosition = copySquare(s.cur.OpponentKingPosition)
	v.RoomID = s.cur.RoomID
	v.OpponentName = s.cur.OpponentName
	v.WhiteClock = s.clocks.remaining(board.White, now)
	v.BlackClock = s.clocks.remaining(board.Black, now)
	if s.selected != nil {
		v.Targets = s.cur.TurnMoves(*s.selected)
	}
	return v
}

// ClockTimes returns both displayed countdowns extrapolated to now.
func (s *Session) ClockTimes(now time.Time) (white, black time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks.remaining(board.White, now), s.clocks.remaining(board.Black, now)
}

func copySquare(sq *board.Square) *board.Square {
	if sq == nil {
		return nil
	}
	c := *sq
	return &c
}

func copyMove(m *board.Move) *board.Move {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
