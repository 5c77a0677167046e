package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clickchess/internal/board"
)

const sampleBoardState = `{
	"type": "board_state",
	"board": {
		"0,4": {"piece_type": "king", "color": "white"},
		"7,4": {"piece_type": "king", "color": "black"},
		"6,4": {"piece_type": "pawn", "color": "white"}
	},
	"current_turn": "white",
	"player_color": "white",
	"room_id": "room-1",
	"opponent_name": "kasparov",
	"available_moves": {"6,4": [{"row": 7, "col": 4}]},
	"last_move": {"from": {"row": 1, "col": 3}, "to": {"row": 3, "col": 3}},
	"in_check": false,
	"white_time": 300,
	"black_time": 287.5
}`

func TestDecodeBoardState(t *testing.T) {
	msg, err := Decode([]byte(sampleBoardState))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	snap, ok := msg.(*Snapshot)
	if !ok {
		t.Fatalf("expected *Snapshot, got %T", msg)
	}

	want := map[board.Square]board.Piece{
		{Row: 0, Col: 4}: {Type: board.King, Color: board.White},
		{Row: 7, Col: 4}: {Type: board.King, Color: board.Black},
		{Row: 6, Col: 4}: {Type: board.Pawn, Color: board.White},
	}
	if diff := cmp.Diff(want, snap.Board); diff != "" {
		t.Fatalf("board mismatch (-want +got):\n%s", diff)
	}
	if !snap.MyTurn() {
		t.Fatalf("expected MyTurn")
	}
	if snap.OpponentName != "kasparov" || snap.RoomID != "room-1" {
		t.Fatalf("metadata: %q %q", snap.OpponentName, snap.RoomID)
	}
	if snap.LastMove == nil || snap.LastMove.From != (board.Square{Row: 1, Col: 3}) {
		t.Fatalf("last move: %+v", snap.LastMove)
	}
	if snap.WhiteTime != 300 || snap.BlackTime != 287.5 {
		t.Fatalf("clocks: %v %v", snap.WhiteTime, snap.BlackTime)
	}
	targets := snap.TurnMoves(board.Square{Row: 6, Col: 4})
	if len(targets) != 1 || targets[0] != (board.Square{Row: 7, Col: 4}) {
		t.Fatalf("turn moves: %v", targets)
	}
}

func TestTurnMovesUsesPremoveMapOffTurn(t *testing.T) {
	snap := &Snapshot{
		PlayerColor: board.White,
		CurrentTurn: board.Black,
		AvailableMoves: map[board.Square][]board.Square{
			{Row: 1, Col: 3}: {{Row: 2, Col: 3}},
		},
		PremoveAvailableMoves: map[board.Square][]board.Square{
			{Row: 1, Col: 3}: {{Row: 3, Col: 3}},
		},
	}
	got := snap.TurnMoves(board.Square{Row: 1, Col: 3})
	if len(got) != 1 || got[0] != (board.Square{Row: 3, Col: 3}) {
		t.Fatalf("expected premove map to be consulted, got %v", got)
	}
}

func TestDecodeGameOver(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"game_over","result":"white wins by checkmate","is_checkmate":true,"is_stalemate":false}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	over, ok := msg.(*GameOver)
	if !ok {
		t.Fatalf("expected *GameOver, got %T", msg)
	}
	if !over.IsCheckmate || over.IsStalemate || over.Result != "white wins by checkmate" {
		t.Fatalf("game over: %+v", over)
	}
}

// Transport status text and unknown types are ignored, not errors that
// propagate state changes.
func TestDecodeIgnoresNonGameMessages(t *testing.T) {
	cases := []string{
		`Waiting for opponent...`,
		`{"type":"error","message":"Not your turn"}`,
		`{"no_type":true}`,
		``,
	}
	for _, payload := range cases {
		if _, err := Decode([]byte(payload)); !errors.Is(err, ErrUnknownMessage) {
			t.Fatalf("payload %q: expected ErrUnknownMessage, got %v", payload, err)
		}
	}
}

func TestDecodeMalformedBoardState(t *testing.T) {
	cases := []string{
		`{"type":"board_state","board":{"9,9":{"piece_type":"king","color":"white"}}}`,
		`{"type":"board_state","board":{"bogus":{"piece_type":"king","color":"white"}}}`,
		`{"type":"board_state","available_moves":{"1,2,3":[]}}`,
		`{"type":"board_state","white_time":"soon"}`,
	}
	for _, payload := range cases {
		msg, err := Decode([]byte(payload))
		if err == nil {
			t.Fatalf("payload %q: expected error, got %T", payload, msg)
		}
		if errors.Is(err, ErrUnknownMessage) {
			t.Fatalf("payload %q: malformed board_state should not be silently unknown", payload)
		}
	}
}

func TestMoveRequestWire(t *testing.T) {
	req := NewMoveRequest(board.Move{From: board.Square{Row: 6, Col: 4}, To: board.Square{Row: 4, Col: 4}})
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"move","from":{"row":6,"col":4},"to":{"row":4,"col":4}}`
	if string(data) != want {
		t.Fatalf("wire = %s, want %s", data, want)
	}

	req.Promotion = board.Queen
	data, _ = json.Marshal(req)
	want = `{"type":"move","from":{"row":6,"col":4},"to":{"row":4,"col":4},"promotion":"queen"}`
	if string(data) != want {
		t.Fatalf("wire = %s, want %s", data, want)
	}
}

func TestSnapshotMarshalRoundTrip(t *testing.T) {
	orig := Snapshot{
		Board: map[board.Square]board.Piece{
			{Row: 0, Col: 0}: {Type: board.Rook, Color: board.White},
		},
		PlayerColor: board.Black,
		CurrentTurn: board.White,
		PremoveAvailableMoves: map[board.Square][]board.Square{
			{Row: 6, Col: 0}: {{Row: 5, Col: 0}, {Row: 4, Col: 0}},
		},
		WhiteTime: 12.5,
		BlackTime: 90,
		RoomID:    "r",
	}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := msg.(*Snapshot)
	got.AvailableMoves = nil // empty map vs nil is not significant
	if diff := cmp.Diff(&orig, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
