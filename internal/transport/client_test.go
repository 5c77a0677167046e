package transport

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clickchess/internal/board"
	"clickchess/internal/game"
	"clickchess/internal/peersim"
	"clickchess/internal/protocol"
)

func protocolMove() protocol.MoveRequest {
	return protocol.NewMoveRequest(board.Move{
		From: board.Square{Row: 1, Col: 4},
		To:   board.Square{Row: 3, Col: 4},
	})
}

func wsURL(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?name=" + name
}

func dialSession(t *testing.T, ctx context.Context, url string) (*game.Session, *Client) {
	t.Helper()
	client, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	s := game.NewSession(client, board.Geometry{Size: 800})
	go func() { _ = client.Listen(ctx, s.HandleMessage) }()
	return s, client
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func clickAt(s *game.Session, target board.Square) {
	x, y := s.Geometry().CenterOf(target, s.Orientation())
	s.HandleClick(x, y)
}

func TestClientPlaysAgainstBot(t *testing.T) {
	srv := httptest.NewServer(peersim.NewServer(5 * time.Minute).WithBot(7, 0).Handler())
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, _ := dialSession(t, ctx, wsURL(t, srv, "tester"))

	waitFor(t, func() bool { return s.View(time.Now()).Ready }, "opening snapshot")
	v := s.View(time.Now())
	if v.PlayerColor != board.White || v.CurrentTurn != board.White {
		t.Fatalf("opening view: player=%s turn=%s", v.PlayerColor, v.CurrentTurn)
	}

	clickAt(s, board.Square{Row: 1, Col: 4})
	clickAt(s, board.Square{Row: 3, Col: 4})

	// The bot answers, so the turn comes back to us with two moves played.
	waitFor(t, func() bool {
		v := s.View(time.Now())
		return v.CurrentTurn == board.White && v.LastMove != nil
	}, "bot reply")

	v = s.View(time.Now())
	if v.LastMove.From == (board.Square{Row: 1, Col: 4}) {
		t.Fatalf("last move should be the bot's, got %+v", v.LastMove)
	}
}

func TestTwoClientsArePaired(t *testing.T) {
	srv := httptest.NewServer(peersim.NewServer(5 * time.Minute).Handler())
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first, _ := dialSession(t, ctx, wsURL(t, srv, "alice"))
	second, _ := dialSession(t, ctx, wsURL(t, srv, "bob"))

	waitFor(t, func() bool {
		return first.View(time.Now()).Ready && second.View(time.Now()).Ready
	}, "both seated")

	fv := first.View(time.Now())
	sv := second.View(time.Now())
	if fv.PlayerColor == sv.PlayerColor {
		t.Fatalf("both clients got %s", fv.PlayerColor)
	}
	if fv.RoomID == "" || fv.RoomID != sv.RoomID {
		t.Fatalf("room ids: %q vs %q", fv.RoomID, sv.RoomID)
	}

	white := first
	black := second
	if fv.PlayerColor == board.Black {
		white, black = second, first
	}

	clickAt(white, board.Square{Row: 1, Col: 4})
	clickAt(white, board.Square{Row: 3, Col: 4})

	waitFor(t, func() bool {
		v := black.View(time.Now())
		return v.LastMove != nil && v.CurrentTurn == board.Black
	}, "move visible to the opponent")
}

func TestSendMoveAfterCloseFails(t *testing.T) {
	srv := httptest.NewServer(peersim.NewServer(5 * time.Minute).WithBot(1, 0).Handler())
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Dial(ctx, wsURL(t, srv, "quitter"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	err = client.SendMove(protocolMove())
	if err != ErrNotConnected {
		t.Fatalf("want ErrNotConnected, got %v", err)
	}
}
