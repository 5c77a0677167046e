package peersim

import (
	"encoding/json"
	"sync"
	"time"

	"clickchess/internal/board"
	"clickchess/internal/logging"
	"clickchess/internal/protocol"
)

// seat is one connected player. Outbound frames go through a buffered
// channel; a slow consumer drops frames rather than blocking the room.
type seat struct {
	color board.Color
	name  string
	out   chan []byte
}

// Room pairs two seats over one engine. It also owns the authoritative
// clocks and the server side of premove handling: an off-turn move request
// is held (latest wins) and replayed the moment the turn passes to its
// sender, where it is validated like any other move.
type Room struct {
	mu     sync.Mutex
	id     string
	engine *Engine
	seats  map[board.Color]*seat

	premoves map[board.Color]*protocol.MoveRequest

	white, black time.Duration
	turnStart    time.Time

	over bool
	now  func() time.Time
}

func NewRoom(id string, initial time.Duration) *Room {
	return &Room{
		id:       id,
		engine:   NewEngine(),
		seats:    make(map[board.Color]*seat),
		premoves: make(map[board.Color]*protocol.MoveRequest),
		white:    initial,
		black:    initial,
		now:      time.Now,
	}
}

// Seat attaches a player and, once both sides are present, starts the game
// by broadcasting the opening position.
func (r *Room) Seat(color board.Color, name string, out chan []byte) {
	r.mu.Lock()
	r.seats[color] = &seat{color: color, name: name, out: out}
	ready := len(r.seats) == 2
	if ready {
		r.turnStart = r.now()
	}
	r.mu.Unlock()

	if ready {
		r.Broadcast()
	}
}

// HandleMove processes one move request from the player seated as color.
func (r *Room) HandleMove(color board.Color, req protocol.MoveRequest) {
	r.mu.Lock()
	if r.over {
		r.mu.Unlock()
		return
	}
	if r.engine.Turn() != color {
		// Hold as that player's premove; a newer one replaces it.
		held := req
		r.premoves[color] = &held
		r.mu.Unlock()
		return
	}
	if err := r.engine.Apply(req); err != nil {
		logging.Debugf("room %s: rejected move from %s: %v", r.id, color, err)
		// Sent under r.mu so the outbox cannot be closed mid-send.
		if s := r.seats[color]; s != nil {
			send(s.out, []byte(`{"type":"error","message":"Invalid move"}`))
		}
		r.mu.Unlock()
		return
	}
	r.bankLocked(color)
	r.mu.Unlock()

	r.afterMove()
}

// afterMove broadcasts the new position, ends the game if it is decided,
// and replays any premove now due. Replays chain: each successful replay
// can hand the turn to a side that also holds one.
func (r *Room) afterMove() {
	for {
		r.Broadcast()

		if out, done := r.engine.Outcome(); done {
			r.mu.Lock()
			r.over = true
			r.mu.Unlock()
			r.broadcastGameOver(out)
			r.detachSeats()
			return
		}

		r.mu.Lock()
		turn := r.engine.Turn()
		pm := r.premoves[turn]
		delete(r.premoves, turn)
		if pm == nil {
			r.mu.Unlock()
			return
		}
		if err := r.engine.Apply(*pm); err != nil {
			// A premove that no longer applies is dropped silently.
			logging.Debugf("room %s: premove lapsed for %s: %v", r.id, turn, err)
			r.mu.Unlock()
			return
		}
		r.bankLocked(turn)
		r.mu.Unlock()
	}
}

// HandleDisconnect resigns the leaving player and tells the opponent.
func (r *Room) HandleDisconnect(color board.Color) {
	r.mu.Lock()
	if r.over {
		r.mu.Unlock()
		return
	}
	r.over = true
	r.mu.Unlock()

	winner := color.Opposite()
	r.engine.Resign(color)
	r.broadcastGameOver(&protocol.GameOver{
		Result: string(winner) + " wins by resignation",
	})
	r.detachSeats()
}

// detachSeats closes every outbox once the game is decided, letting the
// per-connection writers and the bot reader drain their final frames and
// exit. Every send targets a seat still in the map while holding r.mu, so
// closing here cannot race one.
func (r *Room) detachSeats() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for color, s := range r.seats {
		close(s.out)
		delete(r.seats, color)
	}
}

// Broadcast sends each seated player their own view of the position.
func (r *Room) Broadcast() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for color, s := range r.seats {
		snap := r.engine.Snapshot(color)
		snap.RoomID = r.id
		snap.WhiteTime = r.white.Seconds()
		snap.BlackTime = r.black.Seconds()
		if opp, ok := r.seats[color.Opposite()]; ok {
			snap.OpponentName = opp.name
		}
		data, err := json.Marshal(snap)
		if err != nil {
			logging.Errorf("room %s: encode snapshot: %v", r.id, err)
			continue
		}
		send(s.out, data)
	}
}

func (r *Room) broadcastGameOver(out *protocol.GameOver) {
	payload := struct {
		Type string `json:"type"`
		*protocol.GameOver
	}{Type: protocol.TypeGameOver, GameOver: out}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.seats {
		send(s.out, data)
	}
}

// SendError delivers an error frame to one seat if it is still attached.
func (r *Room) SendError(color board.Color, message string) {
	data, err := json.Marshal(map[string]string{"type": "error", "message": message})
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.seats[color]; ok {
		send(s.out, data)
	}
}

// bankLocked charges the mover for the time the turn took.
func (r *Room) bankLocked(mover board.Color) {
	now := r.now()
	spent := now.Sub(r.turnStart)
	if mover == board.Black {
		r.black = max(0, r.black-spent)
	} else {
		r.white = max(0, r.white-spent)
	}
	r.turnStart = now
}

// Over reports whether the game has ended.
func (r *Room) Over() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.over
}

// Turn returns the side to move.
func (r *Room) Turn() board.Color {
	return r.engine.Turn()
}

func send(ch chan []byte, data []byte) {
	select {
	case ch <- data:
	default:
	}
}
