package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"clickchess/internal/board"
	"clickchess/internal/cli"
	"clickchess/internal/game"
	"clickchess/internal/logging"
	"clickchess/internal/peersim"
	"clickchess/internal/storage"
	"clickchess/internal/transport"
	"clickchess/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("SERVER_URL", "ws://localhost:8000/ws"), "game server websocket URL")
	name := flag.String("name", envOr("DISPLAY_NAME", ""), "display name sent to the server")
	debug := flag.Bool("debug", false, "enable debug logging")
	local := flag.Bool("local", false, "play against a built-in bot instead of a server")
	size := flag.Float64("size", 800, "virtual board size in pixels")
	flag.Parse()

	logging.Init(*debug)
	defer logging.Sync()
	logging.Infof("clickchess %s (%s)", commit, buildDate)

	if *name == "" {
		*name = "guest-" + utils.RandomHex(3)
	}

	endpoint := *server
	if *local {
		addr, err := startLocalPeer()
		if err != nil {
			logging.Errorf("local peer: %v", err)
			os.Exit(1)
		}
		endpoint = addr
	}
	endpoint += "?name=" + url.QueryEscape(*name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := transport.Dial(ctx, endpoint)
	if err != nil {
		logging.Errorf("connect: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	journal := openJournal()
	rec := newRecorder(journal, *server, *name)

	session := game.NewSession(client, board.Geometry{Size: *size})
	session.Notify = func(msg string) { fmt.Println(msg) }

	go func() {
		err := client.Listen(ctx, func(data []byte) {
			session.HandleMessage(data)
			rec.observe(ctx, data)
		})
		if err != nil {
			logging.Warnf("connection lost: %v", err)
		}
		stop()
	}()

	repl := cli.New(session, os.Stdout)
	if journal != nil {
		repl.Matches = journal
	}
	repl.Run(os.Stdin)

	rec.abandon(context.Background())
}

// openJournal connects match persistence when DATABASE_URL is set. Without
// it the journal is nil and every call is a no-op.
func openJournal() *storage.Journal {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil
	}
	db, err := storage.New(dsn)
	if err != nil {
		logging.Warnf("journal disabled: %v", err)
		return nil
	}
	logging.Infof("journaling matches")
	return storage.NewJournal(db)
}

// startLocalPeer serves the built-in opponent on a loopback port and
// returns its websocket URL.
func startLocalPeer() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	srv := peersim.NewServer(5 * time.Minute).WithBot(time.Now().UnixNano(), 400*time.Millisecond)
	go func() {
		if err := http.Serve(ln, srv.Handler()); err != nil {
			logging.Debugf("local peer stopped: %v", err)
		}
	}()
	return "ws://" + ln.Addr().String() + "/", nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
