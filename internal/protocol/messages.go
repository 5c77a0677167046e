// Package protocol defines the JSON messages exchanged with the game peer.
// The peer is the single legality authority; this client never derives move
// legality beyond the per-square lists each snapshot carries.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"clickchess/internal/board"
)

const (
	TypeBoardState = "board_state"
	TypeGameOver   = "game_over"
	TypeMove       = "move"
)

// ErrUnknownMessage marks payloads that are not game events, e.g. the peer's
// plain-text status lines. Callers drop these without touching state.
var ErrUnknownMessage = errors.New("not a game message")

// GameOver is the peer's terminal verdict. Timeouts, resignations and mates
// all arrive this way; the client never declares an outcome on its own.
type GameOver struct {
	Result      string `json:"result"`
	IsCheckmate bool   `json:"is_checkmate"`
	IsStalemate bool   `json:"is_stalemate"`
}

// MoveRequest is the single outbound message shape. Promotion is attached
// only when the promotion prompt resolved with a choice.
type MoveRequest struct {
	Type      string          `json:"type"`
	From      board.Square    `json:"from"`
	To        board.Square    `json:"to"`
	Promotion board.PieceType `json:"promotion,omitempty"`
}

// NewMoveRequest wraps a move in the outbound wire shape.
func NewMoveRequest(m board.Move) MoveRequest {
	return MoveRequest{Type: TypeMove, From: m.From, To: m.To}
}

type envelope struct {
	Type string `json:"type"`
}

// Decode parses an inbound payload into *Snapshot or *GameOver. Anything
// else, JSON or not, yields ErrUnknownMessage; malformed game messages yield
// a descriptive error. No input crashes the pipeline.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrUnknownMessage
	}
	switch env.Type {
	case TypeBoardState:
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("bad board_state: %w", err)
		}
		return &snap, nil
	case TypeGameOver:
		var over GameOver
		if err := json.Unmarshal(data, &over); err != nil {
			return nil, fmt.Errorf("bad game_over: %w", err)
		}
		return &over, nil
	default:
		return nil, ErrUnknownMessage
	}
}
