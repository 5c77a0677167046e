package peersim

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"clickchess/internal/board"
	"clickchess/internal/logging"
	"clickchess/internal/protocol"
)

const (
	waitingNotice = "Waiting for opponent..."
	writeWait     = 3 * time.Second
	outboxDepth   = 16
)

// Server accepts websocket players and pairs them into rooms. The first
// connection waits; the second completes the pair. With a bot configured
// every connection gets a room of its own against the bot.
type Server struct {
	mu      sync.Mutex
	waiting *playerConn

	initial  time.Duration
	bot      bool
	botSeed  int64
	botDelay time.Duration
}

type playerConn struct {
	name string
	out  chan []byte
	room chan *seatAssignment
}

type seatAssignment struct {
	room  *Room
	color board.Color
}

// NewServer creates a matchmaking server handing each side initial time on
// the clock.
func NewServer(initial time.Duration) *Server {
	return &Server{initial: initial, botSeed: time.Now().UnixNano(), botDelay: 300 * time.Millisecond}
}

// WithBot switches the server to single-player rooms against a random
// mover. Seed fixes the bot's choices; delay spaces its replies.
func (s *Server) WithBot(seed int64, delay time.Duration) *Server {
	s.bot = true
	s.botSeed = seed
	s.botDelay = delay
	return s
}

// Handler returns the websocket endpoint.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "anonymous"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logging.Debugf("accept failed: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan []byte, outboxDepth)
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for data := range out {
				ctx, cancel := context.WithTimeout(writeCtx, writeWait)
				_ = conn.Write(ctx, websocket.MessageText, data)
				cancel()
			}
		}()

		room, color, err := s.match(r.Context(), name, out)
		if err != nil {
			return
		}
		defer room.HandleDisconnect(color)
		logging.Infof("room %s: %s seated as %s", room.id, name, color)

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}
			var req protocol.MoveRequest
			if err := json.Unmarshal(data, &req); err != nil || req.Type != protocol.TypeMove {
				// Routed through the room: the outbox may already be
				// closed if the game just ended.
				room.SendError(color, "Invalid move format")
				continue
			}
			room.HandleMove(color, req)
		}
	}
}

// match seats the connection. Two-player mode pairs with the waiting
// player or parks this one; bot mode builds a private room immediately.
func (s *Server) match(ctx context.Context, name string, out chan []byte) (*Room, board.Color, error) {
	if s.bot {
		room := NewRoom(uuid.NewString(), s.initial)
		room.Seat(board.White, name, out)
		s.runBot(room)
		return room, board.White, nil
	}

	s.mu.Lock()
	if s.waiting == nil {
		me := &playerConn{name: name, out: out, room: make(chan *seatAssignment, 1)}
		// Notice goes out before the conn is visible to a pairer, so no
		// room can exist yet to close the outbox underneath the send.
		send(out, []byte(waitingNotice))
		s.waiting = me
		s.mu.Unlock()

		select {
		case a := <-me.room:
			return a.room, a.color, nil
		case <-ctx.Done():
			s.mu.Lock()
			if s.waiting == me {
				s.waiting = nil
			}
			s.mu.Unlock()
			return nil, "", ctx.Err()
		}
	}

	opponent := s.waiting
	s.waiting = nil
	s.mu.Unlock()

	room := NewRoom(uuid.NewString(), s.initial)
	room.Seat(board.White, opponent.name, opponent.out)
	opponent.room <- &seatAssignment{room: room, color: board.White}
	room.Seat(board.Black, name, out)
	return room, board.Black, nil
}

// runBot seats the bot as black and drives it off the room's own
// broadcasts, the same way a remote player would play.
func (s *Server) runBot(room *Room) {
	bot := NewBot(s.botSeed)
	out := make(chan []byte, outboxDepth)
	room.Seat(board.Black, "bot", out)

	go func() {
		for data := range out {
			msg, err := protocol.Decode(data)
			if err != nil {
				continue
			}
			snap, ok := msg.(*protocol.Snapshot)
			if !ok || snap.CurrentTurn != board.Black || room.Over() {
				continue
			}
			time.Sleep(s.botDelay)
			req, err := bot.NextMove(room.engine)
			if err != nil {
				continue
			}
			room.HandleMove(board.Black, req)
		}
	}()
}
