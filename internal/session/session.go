package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/salumastake-code/numble-go/internal/api"
	"github.com/salumastake-code/numble-go/internal/events"
	"github.com/salumastake-code/numble-go/internal/ledger"
	"github.com/salumastake-code/numble-go/internal/reveal"
	"github.com/salumastake-code/numble-go/internal/wheel"
)

// TokensPerTicket is the fixed exchange rate; SpinCost is what one
// wheel spin deducts. Both mirror server-side constants.
const (
	TokensPerTicket int64 = 1000
	SpinCost        int64 = 1000
)

var (
	ErrInvalidNumber       = errors.New("entry must be exactly 3 digits")
	ErrInsufficientTokens  = errors.New("not enough tokens")
	ErrInsufficientTickets = errors.New("not enough tickets")
	ErrInvalidAmount       = errors.New("amount must be at least 1")
)

var numberPattern = regexp.MustCompile(`^[0-9]{3}$`)

// Gateway is the slice of the remote API the session drives.
type Gateway interface {
	SubmitEntry(ctx context.Context, number, idempotencyKey string) (*api.EntryResponse, error)
	Exchange(ctx context.Context, direction string, amount int64, idempotencyKey string) (*api.ExchangeResponse, error)
	Spin(ctx context.Context, idempotencyKey string) (*api.SpinResponse, error)
	Profile(ctx context.Context) (*api.ProfileResponse, error)
	CurrentDraw(ctx context.Context) (*api.CurrentDrawResponse, error)
	SpinHistory(ctx context.Context, limit int) ([]api.SpinRecord, error)
	BuyTokenPack(ctx context.Context) (*api.CheckoutResponse, error)
}

// Notifier is the toast analog: transient, non-blocking, user-facing
// action feedback.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// Session ties the gateway, the balance ledger, the wheel and the
// reveal gate together for one signed-in user. Constructed at session
// start; Close tears the balance store down so late-settling mutations
// cannot write into it.
type Session struct {
	gw       Gateway
	store    *ledger.Store
	engine   *ledger.Engine
	animator *wheel.Animator
	gate     *reveal.Gate
	notify   Notifier
	emit     events.Emitter
	log      *slog.Logger

	draw *api.Draw
}

type Params struct {
	Gateway  Gateway
	Store    *ledger.Store
	Engine   *ledger.Engine
	Animator *wheel.Animator
	Gate     *reveal.Gate
	Notifier Notifier
	Emitter  events.Emitter
	Logger   *slog.Logger
}

func New(p Params) *Session {
	if p.Emitter == nil {
		p.Emitter = events.NopEmitter{}
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &Session{
		gw:       p.Gateway,
		store:    p.Store,
		engine:   p.Engine,
		animator: p.Animator,
		gate:     p.Gate,
		notify:   p.Notifier,
		emit:     p.Emitter,
		log:      p.Logger,
	}
}

// Start seeds the local store with the current draw's authoritative
// balances and entries.
func (s *Session) Start(ctx context.Context) error {
	resp, err := s.gw.CurrentDraw(ctx)
	if err != nil {
		return fmt.Errorf("load current draw: %w", err)
	}
	s.draw = resp.Draw
	s.store.SetBalance(ledger.Balance{Tokens: resp.TokenBalance, Tickets: resp.TicketBalance})
	entries := make([]string, len(resp.UserEntries))
	for i, e := range resp.UserEntries {
		entries[i] = e.Number
	}
	s.store.SetEntries(entries)
	return nil
}

func (s *Session) Draw() *api.Draw { return s.draw }

func (s *Session) Balance() ledger.Balance { return s.store.Balance() }

func (s *Session) Entries() []string { return s.store.Entries() }

// Rotation exposes the wheel's cumulative rotation for rendering.
func (s *Session) Rotation() float64 { return s.animator.Rotation() }

// Refresh re-fetches the authoritative balances. Best-effort: callers
// treat a failure as a stale view, not a fault.
func (s *Session) Refresh(ctx context.Context) error {
	profile, err := s.gw.Profile(ctx)
	if err != nil {
		return err
	}
	s.store.SetBalance(ledger.Balance{Tokens: profile.TokenBalance, Tickets: profile.TicketBalance})
	return nil
}

// SubmitEntry spends one ticket on a 3-digit guess for the current
// draw.
func (s *Session) SubmitEntry(ctx context.Context, number string) error {
	if !numberPattern.MatchString(number) {
		return ErrInvalidNumber
	}
	if s.store.Balance().Tickets < 1 {
		s.notify.Error("You need a ticket to enter!")
		return ErrInsufficientTickets
	}

	balance, err := s.engine.Do(ctx, ledger.KindEntry, ledger.Delta{Tickets: -1},
		func(ctx context.Context, key string) (*ledger.Result, error) {
			resp, err := s.gw.SubmitEntry(ctx, number, key)
			if err != nil {
				return nil, err
			}
			return &ledger.Result{Tickets: resp.TicketBalance}, nil
		})
	if err != nil {
		s.notify.Error(userMessage(err, "Submission failed"))
		return err
	}

	s.store.AddEntry(number)
	s.notify.Success(fmt.Sprintf("Entry %s submitted!", number))
	s.emitSettlement(ledger.KindEntry, balance)
	return nil
}

// Exchange converts between tokens and tickets at the fixed rate.
func (s *Session) Exchange(ctx context.Context, direction string, amount int64) error {
	if amount < 1 {
		return ErrInvalidAmount
	}

	var delta ledger.Delta
	switch direction {
	case api.DirectionTokensToTickets:
		if s.store.Balance().Tokens < amount*TokensPerTicket {
			s.notify.Error(fmt.Sprintf("Need %d tokens", amount*TokensPerTicket))
			return ErrInsufficientTokens
		}
		delta = ledger.Delta{Tokens: -amount * TokensPerTicket, Tickets: amount}
	case api.DirectionTicketsToTokens:
		if s.store.Balance().Tickets < amount {
			s.notify.Error("No tickets to exchange")
			return ErrInsufficientTickets
		}
		delta = ledger.Delta{Tokens: amount * TokensPerTicket, Tickets: -amount}
	default:
		return fmt.Errorf("unknown exchange direction %q", direction)
	}

	balance, err := s.engine.Do(ctx, ledger.KindExchange, delta,
		func(ctx context.Context, key string) (*ledger.Result, error) {
			resp, err := s.gw.Exchange(ctx, direction, amount, key)
			if err != nil {
				return nil, err
			}
			return &ledger.Result{Tokens: resp.TokenBalance, Tickets: resp.TicketBalance}, nil
		})
	if err != nil {
		s.notify.Error(userMessage(err, "Exchange failed"))
		return err
	}

	if direction == api.DirectionTokensToTickets {
		s.notify.Success(fmt.Sprintf("%d ticket(s) redeemed!", amount))
	} else {
		s.notify.Success(fmt.Sprintf("%d tokens redeemed!", amount*TokensPerTicket))
	}
	s.emitSettlement(ledger.KindExchange, balance)
	return nil
}

// BuyTokenPack starts a checkout and returns the external URL. Pure
// redirect action: no optimistic delta, nothing to roll back.
func (s *Session) BuyTokenPack(ctx context.Context) (string, error) {
	var url string
	_, err := s.engine.Do(ctx, ledger.KindPurchase, ledger.Delta{},
		func(ctx context.Context, key string) (*ledger.Result, error) {
			resp, err := s.gw.BuyTokenPack(ctx)
			if err != nil {
				return nil, err
			}
			url = resp.URL
			return nil, nil
		})
	if err != nil {
		s.notify.Error(userMessage(err, "Failed to open checkout"))
		return "", err
	}
	return url, nil
}

// CheckReveal runs the exactly-once reveal gate for the latest
// completed draw. Returns nil when there is nothing new to show.
func (s *Session) CheckReveal(ctx context.Context) (*reveal.Reveal, error) {
	rev, err := s.gate.Check(ctx)
	if err != nil || rev == nil {
		return nil, err
	}
	if err := s.emit.EmitReveal(rev.DrawID, rev.Tier.String()); err != nil {
		s.log.Warn("reveal event emission failed", "err", err)
	}
	return rev, nil
}

// RecentSpins is best-effort enrichment; failures degrade to an empty
// view.
func (s *Session) RecentSpins(ctx context.Context, limit int) []api.SpinRecord {
	spins, err := s.gw.SpinHistory(ctx, limit)
	if err != nil {
		s.log.Warn("spin history unavailable", "err", err)
		return nil
	}
	return spins
}

// Close tears the session down. In-flight mutations settle against a
// closed store as no-ops.
func (s *Session) Close() {
	s.store.Close()
	s.emit.Close()
}

func (s *Session) emitSettlement(kind ledger.Kind, balance ledger.Balance) {
	err := s.emit.EmitSettlement(events.Settlement{
		Kind:    string(kind),
		Tokens:  balance.Tokens,
		Tickets: balance.Tickets,
	})
	if err != nil {
		s.log.Warn("settlement event emission failed", "kind", kind, "err", err)
	}
}

// userMessage prefers the server-provided reason when there is one.
func userMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
