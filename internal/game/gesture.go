package game

import (
	"slices"

	"clickchess/internal/board"
)

// The gesture controller is a three-state machine: Idle (no selection),
// Selected (one own square highlighted) and Dragging (between press and
// release). Clicks and press/move/release arrive as separate streams; a
// click that lands while a drag is live is ignored so one gesture can never
// submit twice.

// HandleClick processes a click at screen coordinates.
func (s *Session) HandleClick(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.over || s.drag != nil {
		return
	}
	sq, ok := s.geom.SquareAt(x, y, s.orientation)
	if !ok {
		return
	}

	if s.selected == nil {
		if _, ok := s.selectablePiece(sq); ok {
			s.selected = &sq
		}
		return
	}

	from := *s.selected
	s.selected = nil
	if s.isTarget(from, sq) {
		s.submitIntent(board.Move{From: from, To: sq})
	}
	// Any other square, own piece or not, just deselects.
}

// HandlePress starts a drag when the press lands on an own piece that has
// at least one turn-appropriate move. Other presses change nothing.
func (s *Session) HandlePress(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil || s.over || s.drag != nil {
		return
	}
	sq, ok := s.geom.SquareAt(x, y, s.orientation)
	if !ok {
		return
	}
	piece, ok := s.selectablePiece(sq)
	if !ok {
		return
	}
	s.drag = &Drag{
		Origin:      sq,
		Piece:       piece,
		X:           x,
		Y:           y,
		WasSelected: s.selected != nil && *s.selected == sq,
	}
	s.selected = &sq
}

// HandleDragMove updates the live pointer position of an in-progress drag.
func (s *Session) HandleDragMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return
	}
	s.drag.X = x
	s.drag.Y = y
}

// HandleRelease resolves an in-progress drag. Releasing on the origin
// toggles selection off only if the piece was selected before the press;
// releasing on a legal destination submits; anything else, including a
// release outside the board, cancels the drag silently.
func (s *Session) HandleRelease(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag == nil {
		return
	}
	d := s.drag
	s.drag = nil

	if s.cur == nil || s.over {
		s.selected = nil
		return
	}
	sq, ok := s.geom.SquareAt(x, y, s.orientation)
	if !ok {
		s.selected = nil
		return
	}
	if sq == d.Origin {
		if d.WasSelected {
			s.selected = nil
		} else {
			origin := d.Origin
			s.selected = &origin
		}
		return
	}

	s.selected = nil
	if s.isTarget(d.Origin, sq) {
		s.submitIntent(board.Move{From: d.Origin, To: sq})
	}
}

// selectablePiece reports whether sq holds an own piece with at least one
// move in the turn-appropriate legality map.
func (s *Session) selectablePiece(sq board.Square) (board.Piece, bool) {
	piece, ok := s.cur.PieceAt(sq)
	if !ok || piece.Color != s.cur.PlayerColor {
		return board.Piece{}, false
	}
	if len(s.cur.TurnMoves(sq)) == 0 {
		return board.Piece{}, false
	}
	return piece, true
}

// isTarget checks the destination against the turn-appropriate move list.
// Evaluated at intent time, never cached from selection time: a snapshot
// arriving mid-gesture may have flipped whose turn it is.
func (s *Session) isTarget(from, to board.Square) bool {
	return slices.Contains(s.cur.TurnMoves(from), to)
}
