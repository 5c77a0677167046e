package board

import "testing"

// Every square must survive a display round trip under both orientations.
func TestTransformRoundTrip(t *testing.T) {
	for _, o := range []Orientation{WhiteBottom, BlackBottom} {
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				sq := Square{Row: row, Col: col}
				got := ToLogical(ToDisplay(sq, o), o)
				if got != sq {
					t.Fatalf("orientation %v: round trip of %v gave %v", o, sq, got)
				}
			}
		}
	}
}

func TestToDisplayMirrorsForWhiteBottom(t *testing.T) {
	cases := []struct {
		o    Orientation
		in   Square
		want Square
	}{
		{WhiteBottom, Square{0, 0}, Square{7, 7}},
		{WhiteBottom, Square{6, 4}, Square{1, 3}},
		{BlackBottom, Square{0, 0}, Square{0, 0}},
		{BlackBottom, Square{6, 4}, Square{6, 4}},
	}
	for _, tc := range cases {
		if got := ToDisplay(tc.in, tc.o); got != tc.want {
			t.Fatalf("ToDisplay(%v, %v) = %v, want %v", tc.in, tc.o, got, tc.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	cases := []struct {
		key     string
		want    Square
		wantErr bool
	}{
		{"6,4", Square{6, 4}, false},
		{"0,0", Square{0, 0}, false},
		{"7,7", Square{7, 7}, false},
		{"8,0", Square{}, true},
		{"-1,3", Square{}, true},
		{"3", Square{}, true},
		{"a,b", Square{}, true},
		{"", Square{}, true},
	}
	for _, tc := range cases {
		got, err := ParseKey(tc.key)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseKey(%q): expected error", tc.key)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("ParseKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := Square{Row: row, Col: col}
			got, err := ParseKey(sq.Key())
			if err != nil || got != sq {
				t.Fatalf("key round trip of %v: got %v, err %v", sq, got, err)
			}
		}
	}
}

func TestParseAlgebraic(t *testing.T) {
	sq, err := ParseAlgebraic("e4")
	if err != nil {
		t.Fatalf("ParseAlgebraic: %v", err)
	}
	if sq != (Square{Row: 3, Col: 4}) {
		t.Fatalf("e4 = %v", sq)
	}
	if sq.String() != "e4" {
		t.Fatalf("String() = %q", sq.String())
	}
	if _, err := ParseAlgebraic("i9"); err == nil {
		t.Fatalf("expected error for i9")
	}
}
