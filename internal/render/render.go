// Package render draws a game view as text. It is a pure consumer: it
// never mutates the view and derives everything it prints from one View
// value, so a frame is always internally consistent.
package render

import (
	"fmt"
	"strings"
	"time"

	"clickchess/internal/board"
	"clickchess/internal/game"
)

// Board draws the position with selection, target, premove and last-move
// markers, oriented the way the view says.
func Board(v game.View) string {
	if !v.Ready {
		return "waiting for the game to start\n"
	}

	var b strings.Builder
	b.WriteString(header(v))
	b.WriteString(fileRow(v.Orientation))
	for dispRow := 0; dispRow < 8; dispRow++ {
		// Screen left to right is display column 7 down to 0.
		first := board.ToLogical(board.Square{Row: dispRow, Col: 7}, v.Orientation)
		fmt.Fprintf(&b, "%d ", first.Row+1)
		for dispCol := 7; dispCol >= 0; dispCol-- {
			sq := board.ToLogical(board.Square{Row: dispRow, Col: dispCol}, v.Orientation)
			b.WriteString(cell(v, sq))
		}
		fmt.Fprintf(&b, " %d\n", first.Row+1)
	}
	b.WriteString(fileRow(v.Orientation))
	b.WriteString(footer(v))
	return b.String()
}

func header(v game.View) string {
	opponent := v.OpponentName
	if opponent == "" {
		opponent = "opponent"
	}
	return fmt.Sprintf("%s  %s (white) %s / (black) %s\n",
		v.RoomID, Clock(v.WhiteClock), opponent, Clock(v.BlackClock))
}

func footer(v game.View) string {
	var b strings.Builder
	if v.Over {
		if v.Result != nil {
			fmt.Fprintf(&b, "game over: %s\n", v.Result.Result)
		} else {
			b.WriteString("game over\n")
		}
		return b.String()
	}
	if v.CurrentTurn == v.PlayerColor {
		b.WriteString("your move")
	} else {
		fmt.Fprintf(&b, "%s to move", v.CurrentTurn)
	}
	if v.Premove != nil {
		fmt.Fprintf(&b, "  premove %s%s", v.Premove.From, v.Premove.To)
	}
	if v.PromotionPending != nil {
		b.WriteString("  promote to? (q/r/b/n, x cancels)")
	}
	if v.InCheck {
		b.WriteString("  CHECK")
	}
	b.WriteString("\n")
	return b.String()
}

func fileRow(o board.Orientation) string {
	var b strings.Builder
	b.WriteString("  ")
	for dispCol := 7; dispCol >= 0; dispCol-- {
		sq := board.ToLogical(board.Square{Row: 0, Col: dispCol}, o)
		fmt.Fprintf(&b, " %c ", 'a'+rune(sq.Col))
	}
	b.WriteString("\n")
	return b.String()
}

// cell renders one square as a three-character field: marker, glyph, marker.
func cell(v game.View, sq board.Square) string {
	glyph := "."
	if piece, ok := v.Board[sq]; ok {
		glyph = glyphFor(piece)
	}

	switch {
	case v.Selected != nil && *v.Selected == sq:
		return "[" + glyph + "]"
	case v.Premove != nil && (v.Premove.From == sq || v.Premove.To == sq):
		return "{" + glyph + "}"
	case isTarget(v.Targets, sq):
		return "(" + glyph + ")"
	case v.LastMove != nil && (v.LastMove.From == sq || v.LastMove.To == sq):
		return "<" + glyph + ">"
	case v.InCheck && v.KingPosition != nil && *v.KingPosition == sq:
		return "!" + glyph + "!"
	case v.OpponentInCheck && v.OpponentKingPosition != nil && *v.OpponentKingPosition == sq:
		return "!" + glyph + "!"
	default:
		return " " + glyph + " "
	}
}

func isTarget(targets []board.Square, sq board.Square) bool {
	for _, t := range targets {
		if t == sq {
			return true
		}
	}
	return false
}

// glyphFor maps a piece to a letter, uppercase for white. Unknown piece
// types fall back to their first letter so fairy pieces stay visible.
func glyphFor(p board.Piece) string {
	letter := "?"
	switch p.Type {
	case board.King:
		letter = "k"
	case board.Queen:
		letter = "q"
	case board.Rook:
		letter = "r"
	case board.Bishop:
		letter = "b"
	case board.Knight:
		letter = "n"
	case board.Pawn:
		letter = "p"
	default:
		if len(p.Type) > 0 {
			letter = strings.ToLower(string(p.Type[0]))
		}
	}
	if p.Color == board.White {
		return strings.ToUpper(letter)
	}
	return letter
}

// Clock formats a countdown as m:ss, flooring at zero.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
