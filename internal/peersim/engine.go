// Package peersim is a self-contained opponent: a rules engine, a room
// server speaking the board_state protocol over websockets, and a bot that
// plays random legal moves. It exists so the client can be exercised end to
// end without a remote server.
package peersim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notnil/chess"

	"clickchess/internal/board"
	"clickchess/internal/protocol"
)

// Engine validates moves with notnil/chess and renders authoritative
// snapshots in the wire encoding the session consumes.
type Engine struct {
	mu sync.Mutex
	g  *chess.Game
}

func NewEngine() *Engine {
	return &Engine{g: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

// NewEngineFromFEN starts an engine from an arbitrary position.
func NewEngineFromFEN(fen string) (*Engine, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("bad fen: %w", err)
	}
	return &Engine{g: chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))}, nil
}

// Turn returns the side to move.
func (e *Engine) Turn() board.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return colorOf(e.g.Position().Turn())
}

// Apply validates and plays one move request. Promotion defaults are not
// filled in: a pawn reaching the last rank without a promotion field is an
// invalid move, same as the reference server.
func (e *Engine) Apply(req protocol.MoveRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !req.From.InBounds() || !req.To.InBounds() {
		return fmt.Errorf("move out of bounds: %v -> %v", req.From, req.To)
	}
	uci := req.From.String() + req.To.String() + promoSuffix(req.Promotion)
	if err := e.g.MoveStr(uci); err != nil {
		return fmt.Errorf("invalid move %s: %w", uci, err)
	}
	return nil
}

// Resign ends the game in favor of the other side.
func (e *Engine) Resign(loser board.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.g.Resign(chessColor(loser))
}

// Snapshot renders the current position for one player. Clock values are
// the room's concern and are stitched in by the caller.
func (e *Engine) Snapshot(player board.Color) *protocol.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.g.Position()
	snap := &protocol.Snapshot{
		Board:       make(map[board.Square]board.Piece),
		PlayerColor: player,
		CurrentTurn: colorOf(pos.Turn()),
	}
	for sq, piece := range pos.Board().SquareMap() {
		snap.Board[squareOf(sq)] = board.Piece{
			Type:  pieceTypeOf(piece.Type()),
			Color: colorOf(piece.Color()),
		}
	}

	snap.AvailableMoves = groupMoves(e.g.ValidMoves())
	snap.PremoveAvailableMoves = e.premoveMovesLocked()

	if moves := e.g.Moves(); len(moves) > 0 {
		last := moves[len(moves)-1]
		snap.LastMove = &board.Move{From: squareOf(last.S1()), To: squareOf(last.S2())}
		if last.HasTag(chess.Check) {
			king, ok := e.kingSquareLocked(pos.Turn())
			if colorOf(pos.Turn()) == player {
				snap.InCheck = true
				if ok {
					snap.KingPosition = &king
				}
			} else {
				snap.OpponentInCheck = true
				if ok {
					snap.OpponentKingPosition = &king
				}
			}
		}
	}
	return snap
}

// Outcome reports the finished-game message, if the game is over.
func (e *Engine) Outcome() (*protocol.GameOver, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.g.Outcome() == chess.NoOutcome {
		return nil, false
	}
	out := &protocol.GameOver{
		IsCheckmate: e.g.Method() == chess.Checkmate,
		IsStalemate: e.g.Method() == chess.Stalemate,
	}
	switch {
	case out.IsCheckmate && e.g.Outcome() == chess.WhiteWon:
		out.Result = "white wins by checkmate"
	case out.IsCheckmate:
		out.Result = "black wins by checkmate"
	case out.IsStalemate:
		out.Result = "Draw by stalemate"
	case e.g.Outcome() == chess.WhiteWon:
		out.Result = "white wins by resignation"
	case e.g.Outcome() == chess.BlackWon:
		out.Result = "black wins by resignation"
	default:
		out.Result = "Draw"
	}
	return out, true
}

// ValidUCIMoves exposes the legal moves for the side to move; the bot
// draws from this list.
func (e *Engine) ValidUCIMoves() []*chess.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.ValidMoves()
}

// premoveMovesLocked generates the waiting side's candidate moves by
// flipping the side to move in the FEN and asking the engine again. The
// resulting list is optimistic, the real legality check happens when the
// premove is replayed.
func (e *Engine) premoveMovesLocked() map[board.Square][]board.Square {
	fields := strings.Fields(e.g.Position().String())
	if len(fields) < 6 {
		return nil
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-" // en passant rights do not survive the flip
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil
	}
	flipped := chess.NewGame(opt)
	return groupMoves(flipped.ValidMoves())
}

func (e *Engine) kingSquareLocked(side chess.Color) (board.Square, bool) {
	for sq, piece := range e.g.Position().Board().SquareMap() {
		if piece.Type() == chess.King && piece.Color() == side {
			return squareOf(sq), true
		}
	}
	return board.Square{}, false
}

// groupMoves buckets destinations by origin. Promotion variants of the
// same from/to pair collapse into one destination entry.
func groupMoves(moves []*chess.Move) map[board.Square][]board.Square {
	out := make(map[board.Square][]board.Square)
	for _, m := range moves {
		from := squareOf(m.S1())
		to := squareOf(m.S2())
		if seen := out[from]; len(seen) > 0 && seen[len(seen)-1] == to {
			continue
		}
		out[from] = append(out[from], to)
	}
	return out
}

func squareOf(sq chess.Square) board.Square {
	return board.Square{Row: int(sq.Rank()), Col: int(sq.File())}
}

func colorOf(c chess.Color) board.Color {
	if c == chess.Black {
		return board.Black
	}
	return board.White
}

func chessColor(c board.Color) chess.Color {
	if c == board.Black {
		return chess.Black
	}
	return chess.White
}

func pieceTypeOf(pt chess.PieceType) board.PieceType {
	switch pt {
	case chess.King:
		return board.King
	case chess.Queen:
		return board.Queen
	case chess.Rook:
		return board.Rook
	case chess.Bishop:
		return board.Bishop
	case chess.Knight:
		return board.Knight
	default:
		return board.Pawn
	}
}

func promoSuffix(pt board.PieceType) string {
	switch pt {
	case board.Queen:
		return "q"
	case board.Rook:
		return "r"
	case board.Bishop:
		return "b"
	case board.Knight:
		return "n"
	default:
		return ""
	}
}
