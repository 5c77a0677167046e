package game

import (
	"time"

	"clickchess/internal/board"
	"clickchess/internal/protocol"
)

// Sender is the outbound half of the transport boundary. Sends are
// fire-and-forget; a failure means the channel is unusable, not retryable.
type Sender interface {
	SendMove(protocol.MoveRequest) error
}

// Notifier surfaces blocking user notices, e.g. a dead transport.
type Notifier func(msg string)

// Drag is the transient state between press and release on an own piece.
// WasSelected records whether the origin was already selected before the
// press; it decides whether releasing back on the origin toggles selection
// off or keeps it.
type Drag struct {
	Origin      board.Square
	Piece       board.Piece
	X, Y        float64
	WasSelected bool
}

// View is the immutable interaction state published to the render layer.
// Maps and slices are shared with the authoritative snapshot and must be
// treated as read-only.
type View struct {
	Ready bool

	Board       map[board.Square]board.Piece
	PlayerColor board.Color
	CurrentTurn board.Color
	Orientation board.Orientation

	Selected         *board.Square
	Targets          []board.Square
	Dragging         *Drag
	Premove          *board.Move
	PromotionPending *board.Move
	LastMove         *board.Move

	InCheck              bool
	KingPosition         *board.Square
	OpponentInCheck      bool
	OpponentKingPosition *board.Square

	WhiteClock time.Duration
	BlackClock time.Duration

	Over         bool
	Result       *protocol.GameOver
	RoomID       string
	OpponentName string
}
