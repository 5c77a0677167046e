package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Color identifies a side. The wire protocol uses lowercase names.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceType names a piece kind. It is a plain string so fairy variants sent
// by the peer pass through without translation.
type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Piece is an immutable piece value; identity is positional.
type Piece struct {
	Type  PieceType `json:"piece_type"`
	Color Color     `json:"color"`
}

// Square is a logical board coordinate. Row 0 is white's back rank
// regardless of which side this client plays or how the board is drawn.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the square lies on the 8x8 board.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Key renders the square in the peer's "row,col" map-key form.
func (s Square) Key() string {
	return fmt.Sprintf("%d,%d", s.Row, s.Col)
}

// String returns algebraic notation, e.g. "e4".
func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.Col, s.Row+1)
}

// ParseKey parses the peer's "row,col" map-key form.
func ParseKey(key string) (Square, error) {
	r, c, ok := strings.Cut(key, ",")
	if !ok {
		return Square{}, fmt.Errorf("bad square key %q", key)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return Square{}, fmt.Errorf("bad square key %q", key)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return Square{}, fmt.Errorf("bad square key %q", key)
	}
	sq := Square{Row: row, Col: col}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("square key %q out of range", key)
	}
	return sq, nil
}

// ParseAlgebraic parses "e4" style notation.
func ParseAlgebraic(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("bad square %q", s)
	}
	col := int(s[0] - 'a')
	row := int(s[1] - '1')
	sq := Square{Row: row, Col: col}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("square %q out of range", s)
	}
	return sq, nil
}

// Move is a from/to square pair.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Orientation selects which side's back rank is drawn at the bottom of the
// display. It is purely a transform parameter and never changes logical
// square identity.
type Orientation int

const (
	WhiteBottom Orientation = iota
	BlackBottom
)

// Flip returns the opposite orientation.
func (o Orientation) Flip() Orientation {
	if o == WhiteBottom {
		return BlackBottom
	}
	return WhiteBottom
}

// ForColor returns the orientation that puts the given side at the bottom.
func ForColor(c Color) Orientation {
	if c == Black {
		return BlackBottom
	}
	return WhiteBottom
}

// ToDisplay maps a logical square to display coordinates. With black at the
// bottom display coordinates equal logical coordinates; with white at the
// bottom both axes are mirrored. Callers must pass in-bounds squares.
func ToDisplay(sq Square, o Orientation) Square {
	if o == BlackBottom {
		return sq
	}
	return Square{Row: 7 - sq.Row, Col: 7 - sq.Col}
}

// ToLogical maps display coordinates back to the logical square. The mirror
// is its own inverse, so this is the same mapping as ToDisplay.
func ToLogical(sq Square, o Orientation) Square {
	return ToDisplay(sq, o)
}
