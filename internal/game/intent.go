package game

import (
	"fmt"

	"clickchess/internal/board"
	"clickchess/internal/logging"
	"clickchess/internal/protocol"
)

// submitIntent routes an accepted move intent: pawn moves into the last
// rank are parked behind the promotion prompt, everything else dispatches
// immediately. Caller holds the session mutex.
func (s *Session) submitIntent(m board.Move) {
	if s.needsPromotion(m) {
		s.promotion = &m
		return
	}
	s.dispatch(protocol.NewMoveRequest(m))
}

// needsPromotion reports whether the intent moves a pawn onto row 0 or 7.
func (s *Session) needsPromotion(m board.Move) bool {
	piece, ok := s.cur.PieceAt(m.From)
	if !ok || piece.Type != board.Pawn {
		return false
	}
	return m.To.Row == 0 || m.To.Row == 7
}

// dispatch finalizes an intent. Turn ownership is decided here, at the
// moment of submission: off-turn intents are stored as the sole live
// premove and still sent immediately, the peer holds or rejects them.
func (s *Session) dispatch(req protocol.MoveRequest) {
	if !s.cur.MyTurn() {
		mv := board.Move{From: req.From, To: req.To}
		s.premove = &mv
	}
	if err := s.sender.SendMove(req); err != nil {
		logging.Debugf("send failed: %v", err)
		s.Notify(fmt.Sprintf("Could not send move: %v", err))
	}
}

// ChoosePromotion resolves a pending promotion with the chosen piece type
// and submits the completed intent through the turn-appropriate path.
// Choices outside queen/rook/bishop/knight are ignored.
func (s *Session) ChoosePromotion(pt board.PieceType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.promotion == nil || s.over || s.cur == nil {
		return
	}
	switch pt {
	case board.Queen, board.Rook, board.Bishop, board.Knight:
	default:
		return
	}
	m := *s.promotion
	s.promotion = nil
	req := protocol.NewMoveRequest(m)
	req.Promotion = pt
	s.dispatch(req)
}

// CancelPromotion discards a pending promotion with no transport effect.
func (s *Session) CancelPromotion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotion = nil
}

// Premove returns the live premove, if any.
func (s *Session) Premove() *board.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMove(s.premove)
}
