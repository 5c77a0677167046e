package board

import "math"

// Geometry describes where the board sits in screen space: top-left corner
// and overall pixel size. The gesture controller uses it to clamp raw
// pointer coordinates before the pure transform is consulted.
type Geometry struct {
	OriginX float64
	OriginY float64
	Size    float64
}

// SquareAt resolves a screen point to the logical square under it. Points
// outside the board area are rejected, not clamped.
func (g Geometry) SquareAt(x, y float64, o Orientation) (Square, bool) {
	if g.Size <= 0 {
		return Square{}, false
	}
	fx := (x - g.OriginX) / g.Size
	fy := (y - g.OriginY) / g.Size
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return Square{}, false
	}
	// Display row 0 sits at the top of the screen and display col 0 at the
	// right; that is what makes the identity orientation black-at-bottom.
	row := int(math.Floor(fy * 8))
	col := 7 - int(math.Floor(fx*8))
	return ToLogical(Square{Row: row, Col: col}, o), true
}

// CenterOf returns the screen-space center of a logical square.
func (g Geometry) CenterOf(sq Square, o Orientation) (x, y float64) {
	d := ToDisplay(sq, o)
	cell := g.Size / 8
	x = g.OriginX + (float64(7-d.Col)+0.5)*cell
	y = g.OriginY + (float64(d.Row)+0.5)*cell
	return x, y
}
