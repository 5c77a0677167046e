package protocol

import (
	"encoding/json"
	"fmt"

	"clickchess/internal/board"
)

// Snapshot is one authoritative board description. It is immutable once
// decoded; a new push replaces it wholesale, and the previous generation is
// retained by the session for reconciliation only.
type Snapshot struct {
	Board                 map[board.Square]board.Piece
	PlayerColor           board.Color
	CurrentTurn           board.Color
	AvailableMoves        map[board.Square][]board.Square
	PremoveAvailableMoves map[board.Square][]board.Square
	LastMove              *board.Move
	InCheck               bool
	KingPosition          *board.Square
	OpponentInCheck       bool
	OpponentKingPosition  *board.Square
	WhiteTime             float64
	BlackTime             float64
	RoomID                string
	OpponentName          string
}

// The peer keys its board and move maps by "row,col" strings.
type snapshotJSON struct {
	Board                 map[string]board.Piece    `json:"board"`
	PlayerColor           board.Color               `json:"player_color"`
	CurrentTurn           board.Color               `json:"current_turn"`
	AvailableMoves        map[string][]board.Square `json:"available_moves"`
	PremoveAvailableMoves map[string][]board.Square `json:"premove_available_moves"`
	LastMove              *board.Move               `json:"last_move"`
	InCheck               bool                      `json:"in_check"`
	KingPosition          *board.Square             `json:"king_position"`
	OpponentInCheck       bool                      `json:"opponent_in_check"`
	OpponentKingPosition  *board.Square             `json:"opponent_king_position"`
	WhiteTime             float64                   `json:"white_time"`
	BlackTime             float64                   `json:"black_time"`
	RoomID                string                    `json:"room_id"`
	OpponentName          string                    `json:"opponent_name"`
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var aux snapshotJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	pieces, err := squareKeyedPieces(aux.Board)
	if err != nil {
		return err
	}
	avail, err := squareKeyedMoves(aux.AvailableMoves)
	if err != nil {
		return err
	}
	pre, err := squareKeyedMoves(aux.PremoveAvailableMoves)
	if err != nil {
		return err
	}
	*s = Snapshot{
		Board:                 pieces,
		PlayerColor:           aux.PlayerColor,
		CurrentTurn:           aux.CurrentTurn,
		AvailableMoves:        avail,
		PremoveAvailableMoves: pre,
		LastMove:              aux.LastMove,
		InCheck:               aux.InCheck,
		KingPosition:          aux.KingPosition,
		OpponentInCheck:       aux.OpponentInCheck,
		OpponentKingPosition:  aux.OpponentKingPosition,
		WhiteTime:             aux.WhiteTime,
		BlackTime:             aux.BlackTime,
		RoomID:                aux.RoomID,
		OpponentName:          aux.OpponentName,
	}
	return nil
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	aux := snapshotJSON{
		Board:                 make(map[string]board.Piece, len(s.Board)),
		PlayerColor:           s.PlayerColor,
		CurrentTurn:           s.CurrentTurn,
		AvailableMoves:        make(map[string][]board.Square, len(s.AvailableMoves)),
		PremoveAvailableMoves: make(map[string][]board.Square, len(s.PremoveAvailableMoves)),
		LastMove:              s.LastMove,
		InCheck:               s.InCheck,
		KingPosition:          s.KingPosition,
		OpponentInCheck:       s.OpponentInCheck,
		OpponentKingPosition:  s.OpponentKingPosition,
		WhiteTime:             s.WhiteTime,
		BlackTime:             s.BlackTime,
		RoomID:                s.RoomID,
		OpponentName:          s.OpponentName,
	}
	for sq, p := range s.Board {
		aux.Board[sq.Key()] = p
	}
	for sq, moves := range s.AvailableMoves {
		aux.AvailableMoves[sq.Key()] = moves
	}
	for sq, moves := range s.PremoveAvailableMoves {
		aux.PremoveAvailableMoves[sq.Key()] = moves
	}
	type alias snapshotJSON
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: TypeBoardState, alias: alias(aux)})
}

func squareKeyedPieces(in map[string]board.Piece) (map[board.Square]board.Piece, error) {
	out := make(map[board.Square]board.Piece, len(in))
	for key, piece := range in {
		sq, err := board.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("board: %w", err)
		}
		out[sq] = piece
	}
	return out, nil
}

func squareKeyedMoves(in map[string][]board.Square) (map[board.Square][]board.Square, error) {
	out := make(map[board.Square][]board.Square, len(in))
	for key, moves := range in {
		sq, err := board.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("moves: %w", err)
		}
		out[sq] = moves
	}
	return out, nil
}

// MyTurn reports whether this client's side is to move.
func (s *Snapshot) MyTurn() bool {
	return s.CurrentTurn == s.PlayerColor
}

// PieceAt looks up the occupant of a square.
func (s *Snapshot) PieceAt(sq board.Square) (board.Piece, bool) {
	p, ok := s.Board[sq]
	return p, ok
}

// TurnMoves returns the legality list for a square from the map appropriate
// to the current turn: available_moves when it is this player's turn,
// premove_available_moves otherwise. Callers re-evaluate this at intent
// time, never at selection time.
func (s *Snapshot) TurnMoves(from board.Square) []board.Square {
	if s.MyTurn() {
		return s.AvailableMoves[from]
	}
	return s.PremoveAvailableMoves[from]
}

// TimeFor returns the authoritative seconds remaining for a side.
func (s *Snapshot) TimeFor(c board.Color) float64 {
	if c == board.Black {
		return s.BlackTime
	}
	return s.WhiteTime
}
