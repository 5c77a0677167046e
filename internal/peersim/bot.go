package peersim

import (
	"errors"
	"math/rand"

	"github.com/notnil/chess"

	"clickchess/internal/protocol"
)

// Bot picks a legal move uniformly at random. Promotions always choose a
// queen.
type Bot struct {
	rng *rand.Rand
}

func NewBot(seed int64) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed))}
}

var errNoMoves = errors.New("no legal moves to play")

// NextMove returns the bot's move request for the current position.
func (b *Bot) NextMove(e *Engine) (protocol.MoveRequest, error) {
	moves := e.ValidUCIMoves()
	if len(moves) == 0 {
		return protocol.MoveRequest{}, errNoMoves
	}
	m := moves[b.rng.Intn(len(moves))]
	req := protocol.MoveRequest{
		Type: protocol.TypeMove,
		From: squareOf(m.S1()),
		To:   squareOf(m.S2()),
	}
	if m.Promo() != chess.NoPieceType {
		req.Promotion = pieceTypeOf(m.Promo())
	}
	return req, nil
}
