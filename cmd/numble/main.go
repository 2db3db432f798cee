package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/nats-io/nats.go"

	"github.com/salumastake-code/numble-go/internal/api"
	"github.com/salumastake-code/numble-go/internal/events"
	"github.com/salumastake-code/numble-go/internal/ledger"
	"github.com/salumastake-code/numble-go/internal/reveal"
	"github.com/salumastake-code/numble-go/internal/session"
	"github.com/salumastake-code/numble-go/internal/wheel"
	"github.com/salumastake-code/numble-go/pkg/common/config"
	"github.com/salumastake-code/numble-go/pkg/common/logger"
	"github.com/salumastake-code/numble-go/pkg/kvstore"
)

// --- CLI definitions --- //

type CLI struct {
	Status   StatusCmd   `cmd:"" help:"Show the current draw, balances and entries."`
	Play     PlayCmd     `cmd:"" help:"Submit a 3-digit entry for the current draw."`
	Spin     SpinCmd     `cmd:"" help:"Spin the wheel."`
	Exchange ExchangeCmd `cmd:"" help:"Convert between tokens and tickets."`
	Buy      BuyCmd      `cmd:"" help:"Open a token pack checkout."`
	Reveal   RevealCmd   `cmd:"" help:"Show the latest completed draw's result, once."`
	Watch    WatchCmd    `cmd:"" help:"Print session events from NATS."`
}

type CommonFlags struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
	Debug      bool   `help:"Enable debug logs." name:"debug"`
}

type StatusCmd struct {
	CommonFlags
}

type PlayCmd struct {
	CommonFlags
	Number string `arg:"" help:"3-digit entry number."`
}

type SpinCmd struct {
	CommonFlags
}

type ExchangeCmd struct {
	CommonFlags
	Want   string `arg:"" enum:"tickets,tokens" help:"What to receive: tickets or tokens."`
	Amount int64  `arg:"" optional:"" default:"1" help:"Tickets to receive, or tickets to cash in."`
}

type BuyCmd struct {
	CommonFlags
}

type RevealCmd struct {
	CommonFlags
}

type WatchCmd struct {
	NATSURL string `help:"NATS server URL." default:"nats://127.0.0.1:4222" name:"nats-url"`
	Subject string `help:"NATS subject to subscribe to." default:"numble.>" name:"subject"`
}

// Run methods wire subcommands to your existing functions.

func (c *StatusCmd) Run() error {
	return withSession(c.CommonFlags, runStatus)
}

func (c *PlayCmd) Run() error {
	return withSession(c.CommonFlags, func(ctx context.Context, s *session.Session) error {
		return s.SubmitEntry(ctx, c.Number)
	})
}

func (c *SpinCmd) Run() error {
	return withSession(c.CommonFlags, runSpin)
}

func (c *ExchangeCmd) Run() error {
	direction := api.DirectionTokensToTickets
	if c.Want == "tokens" {
		direction = api.DirectionTicketsToTokens
	}
	return withSession(c.CommonFlags, func(ctx context.Context, s *session.Session) error {
		return s.Exchange(ctx, direction, c.Amount)
	})
}

func (c *BuyCmd) Run() error {
	return withSession(c.CommonFlags, func(ctx context.Context, s *session.Session) error {
		url, err := s.BuyTokenPack(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Complete your purchase at: %s\n", url)
		return nil
	})
}

func (c *RevealCmd) Run() error {
	return withSession(c.CommonFlags, runReveal)
}

func (c *WatchCmd) Run() error {
	runWatch(c.NATSURL, c.Subject)
	return nil
}

// --- Your existing app code --- //

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("numble"),
		kong.Description("Weekly number sweepstakes client: entries, wheel spins & draw reveals."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// withSession builds a full session from the config file, starts it
// against the current draw, runs fn and tears the session down.
func withSession(flags CommonFlags, fn func(ctx context.Context, s *session.Session) error) error {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		slog.Error("Load config failed", "err", err)
		os.Exit(1)
	}

	level := parseLevel(cfg.Log.Level)
	if flags.Debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
	slog.Debug("Config loaded")

	markers, err := openMarkers(cfg)
	if err != nil {
		slog.Error("Open marker store failed", "err", err)
		os.Exit(1)
	}
	defer markers.Close()

	emitter := events.Emitter(events.NopEmitter{})
	if cfg.NATS.URL != "" {
		emitter, err = events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			slog.Warn("NATS unavailable; events disabled", "err", err)
			emitter = events.NopEmitter{}
		}
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.RequestTimeout)
	store := ledger.NewStore(ledger.Balance{})
	engine := ledger.NewEngine(store, func(ctx context.Context) (ledger.Balance, error) {
		profile, err := client.Profile(ctx)
		if err != nil {
			return ledger.Balance{}, err
		}
		return ledger.Balance{Tokens: profile.TokenBalance, Tickets: profile.TicketBalance}, nil
	}, logger.L())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	animator := wheel.NewAnimator(wheel.DefaultGeometry(), cfg.Wheel.SpinDuration, cfg.Wheel.FrameInterval, rng)

	s := session.New(session.Params{
		Gateway:  client,
		Store:    store,
		Engine:   engine,
		Animator: animator,
		Gate:     reveal.NewGate(client, markers, logger.L()),
		Notifier: consoleNotifier{},
		Emitter:  emitter,
		Logger:   logger.L(),
	})
	defer s.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := s.Start(ctx); err != nil {
		return err
	}
	return fn(ctx, s)
}

func openMarkers(cfg *config.Config) (kvstore.Store, error) {
	if cfg.Storage.Directory == "" {
		return kvstore.NewMemoryStore(), nil
	}
	return kvstore.NewBadgerStore(cfg.Storage.Directory, "reveal")
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runStatus(ctx context.Context, s *session.Session) error {
	if draw := s.Draw(); draw != nil {
		fmt.Printf("Draw %s (%s)\n", draw.DrawID, draw.Status)
		if weekStart, err := session.ParseWeekStart(draw.WeekStart); err == nil {
			fmt.Printf("Week #%d, draw in %s\n",
				session.WeekNumber(weekStart),
				session.FormatCountdown(session.Countdown(weekStart, time.Now())))
		}
	}

	balance := s.Balance()
	fmt.Printf("Tokens:  %d\n", balance.Tokens)
	fmt.Printf("Tickets: %d\n", balance.Tickets)

	entries := s.Entries()
	if len(entries) == 0 {
		fmt.Println("No entries this week.")
	} else {
		fmt.Printf("Entries: %v\n", entries)
	}

	for _, spin := range s.RecentSpins(ctx, 5) {
		fmt.Printf("  spin %s won %d tokens (%s)\n", spin.SpinID, spin.TokensWon, spin.CreatedAt)
	}
	return nil
}

func runSpin(ctx context.Context, s *session.Session) error {
	result, err := s.Spin(ctx, func(rotation float64) {
		fmt.Printf("\rspinning... %6.0f°", rotation)
	})
	fmt.Println()
	if err != nil {
		return err
	}

	for _, outcome := range result.Outcomes {
		if outcome.Respin {
			fmt.Printf("Landed on %s, spinning again!\n", outcome.Label)
			continue
		}
		fmt.Printf("Landed on %s: +%d tokens\n", outcome.Label, outcome.Tokens)
	}
	if result.Interrupted {
		fmt.Println("The free respin could not be completed.")
	}
	fmt.Printf("Tokens: %d\n", result.Balance.Tokens)
	return nil
}

func runReveal(ctx context.Context, s *session.Session) error {
	rev, err := s.CheckReveal(ctx)
	if err != nil {
		return err
	}
	if rev == nil {
		fmt.Println("Nothing new to reveal.")
		return nil
	}

	fmt.Println(rev.Title)
	fmt.Println(rev.Detail)
	if rev.Entry != "" {
		fmt.Printf("Your closest entry: %s\n", rev.Entry)
	}
	return nil
}

func runWatch(natsURL, subject string) {
	logger.Init(&logger.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
	})

	nc, err := nats.Connect(natsURL)
	if err != nil {
		slog.Error("NATS connect failed", "err", err)
		os.Exit(1)
	}
	defer nc.Close()

	slog.Info("Subscribed to", "subject", subject)

	_, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		fmt.Printf("[%s] %s\n", msg.Subject, string(msg.Data))
	})
	if err != nil {
		slog.Error("NATS subscribe failed", "err", err)
		os.Exit(1)
	}

	select {} // Block forever
}

// consoleNotifier is the toast analog for a terminal.
type consoleNotifier struct{}

func (consoleNotifier) Info(msg string) { fmt.Println(msg) }

func (consoleNotifier) Success(msg string) { fmt.Println(msg) }

func (consoleNotifier) Error(msg string) { fmt.Fprintln(os.Stderr, msg) }
