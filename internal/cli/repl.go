// Package cli turns terminal commands into pointer gestures and session
// calls. One line is one command; everything the session can do from a
// pointer or a key has a command here.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"clickchess/internal/board"
	"clickchess/internal/game"
	"clickchess/internal/render"
	"clickchess/internal/storage"
)

// MatchSource provides journaled match history for the history and stats
// commands. *storage.Journal satisfies it, including as a nil no-op.
type MatchSource interface {
	Recent(ctx context.Context, limit int) ([]storage.Match, error)
	FetchStats(ctx context.Context) (storage.Stats, error)
}

// REPL drives one session from a line-based command stream.
type REPL struct {
	Session *game.Session
	Out     io.Writer

	// Matches backs the history and stats commands; leave nil when no
	// journal is configured.
	Matches MatchSource

	// Now feeds view extrapolation; tests pin it.
	Now func() time.Time
}

func New(s *game.Session, out io.Writer) *REPL {
	return &REPL{Session: s, Out: out, Now: time.Now}
}

// Run executes commands until EOF or quit.
func (r *REPL) Run(in io.Reader) {
	sc := bufio.NewScanner(in)
	r.draw()
	for sc.Scan() {
		if quit := r.Execute(sc.Text()); quit {
			return
		}
	}
}

// Execute runs one command line and redraws. It reports whether the user
// asked to quit.
func (r *REPL) Execute(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		r.draw()
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true

	case "click":
		if sq, ok := r.square(fields); ok {
			x, y := r.point(sq)
			r.Session.HandleClick(x, y)
		}

	case "press":
		if sq, ok := r.square(fields); ok {
			x, y := r.point(sq)
			r.Session.HandlePress(x, y)
		}

	case "release":
		if sq, ok := r.square(fields); ok {
			x, y := r.point(sq)
			r.Session.HandleRelease(x, y)
		}

	case "drag":
		// drag e2 e4: press, glide, release.
		if len(fields) != 3 {
			r.usage("drag <from> <to>")
			break
		}
		from, errFrom := board.ParseAlgebraic(fields[1])
		to, errTo := board.ParseAlgebraic(fields[2])
		if errFrom != nil || errTo != nil {
			r.usage("drag <from> <to>")
			break
		}
		x, y := r.point(from)
		r.Session.HandlePress(x, y)
		x, y = r.point(to)
		r.Session.HandleDragMove(x, y)
		r.Session.HandleRelease(x, y)

	case "q":
		r.Session.ChoosePromotion(board.Queen)
	case "r":
		r.Session.ChoosePromotion(board.Rook)
	case "b":
		r.Session.ChoosePromotion(board.Bishop)
	case "n":
		r.Session.ChoosePromotion(board.Knight)
	case "x":
		r.Session.CancelPromotion()

	case "flip":
		r.Session.FlipBoard()
	case "hide":
		r.Session.SetVisible(false)
	case "show":
		r.Session.SetVisible(true)
	case "board":
		// redraw only

	case "history":
		r.history()
		return false
	case "stats":
		r.stats()
		return false

	default:
		fmt.Fprintf(r.Out, "commands: click/press/release <sq>, drag <from> <to>, q/r/b/n, x, flip, hide, show, board, history, stats, quit\n")
		return false
	}

	r.draw()
	return false
}

func (r *REPL) square(fields []string) (board.Square, bool) {
	if len(fields) != 2 {
		r.usage(fields[0] + " <square>")
		return board.Square{}, false
	}
	sq, err := board.ParseAlgebraic(fields[1])
	if err != nil {
		fmt.Fprintf(r.Out, "bad square %q\n", fields[1])
		return board.Square{}, false
	}
	return sq, true
}

func (r *REPL) point(sq board.Square) (float64, float64) {
	return r.Session.Geometry().CenterOf(sq, r.Session.Orientation())
}

func (r *REPL) usage(u string) {
	fmt.Fprintf(r.Out, "usage: %s\n", u)
}

// history prints the newest journaled matches, freshest first.
func (r *REPL) history() {
	if r.Matches == nil {
		fmt.Fprintln(r.Out, "match journal not configured")
		return
	}
	matches, err := r.Matches.Recent(context.Background(), 10)
	if err != nil {
		fmt.Fprintf(r.Out, "history: %v\n", err)
		return
	}
	if len(matches) == 0 {
		fmt.Fprintln(r.Out, "no journaled matches")
		return
	}
	for _, m := range matches {
		result := m.Result
		if result == "" {
			result = "in progress"
		}
		fmt.Fprintf(r.Out, "%s  %s  as %s vs %s: %s\n",
			m.StartedAt.Format("2006-01-02 15:04"), m.RoomID, m.PlayerColor, m.OpponentName, result)
	}
}

// stats prints the journal summary line.
func (r *REPL) stats() {
	if r.Matches == nil {
		fmt.Fprintln(r.Out, "match journal not configured")
		return
	}
	st, err := r.Matches.FetchStats(context.Background())
	if err != nil {
		fmt.Fprintf(r.Out, "stats: %v\n", err)
		return
	}
	fmt.Fprintf(r.Out, "played %d, completed %d, active %d\n", st.Played, st.Completed, st.Active)
}

func (r *REPL) draw() {
	fmt.Fprint(r.Out, render.Board(r.Session.View(r.Now())))
}
