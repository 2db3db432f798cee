package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salumastake-code/numble-go/pkg/retry"
)

type Kind string

const (
	KindEntry    Kind = "entry"
	KindExchange Kind = "exchange"
	KindSpin     Kind = "spin"
	KindPurchase Kind = "purchase"
)

var (
	ErrStoreClosed       = errors.New("balance store is closed")
	ErrDuplicateMutation = errors.New("mutation with this idempotency key already pending")
)

// Result carries the authoritative balance fields a dispatch returned.
// A nil field means the server omitted it.
type Result struct {
	Tokens  *int64
	Tickets *int64
}

// Dispatch performs the remote side of a mutation. It receives the
// idempotency key the engine generated so the server can deduplicate
// network-level retries.
type Dispatch func(ctx context.Context, idempotencyKey string) (*Result, error)

// Refetch loads the full authoritative balance; the engine falls back
// to it when a success response omits a field the mutation touched.
type Refetch func(ctx context.Context) (Balance, error)

// Engine wraps every balance-affecting action in the three-phase
// protocol: optimistic apply, remote dispatch, reconcile-or-rollback.
// All mutations serialize through the engine, one at a time in arrival
// order, so a rollback always restores exactly the pre-mutation value.
type Engine struct {
	mu      sync.Mutex // held for the full mutation, dispatch included
	store   *Store
	refetch Refetch
	log     *slog.Logger
	newKey  func() string

	pendingMu sync.Mutex
	pending   map[string]Kind
}

func NewEngine(store *Store, refetch Refetch, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:   store,
		refetch: refetch,
		log:     log,
		newKey:  uuid.NewString,
		pending: make(map[string]Kind),
	}
}

// Do runs one mutation with a freshly generated idempotency key.
func (e *Engine) Do(ctx context.Context, kind Kind, delta Delta, dispatch Dispatch) (Balance, error) {
	return e.DoWithKey(ctx, kind, e.newKey(), delta, dispatch)
}

// DoWithKey runs one mutation under an explicit idempotency key. At
// most one mutation per key may be in flight.
func (e *Engine) DoWithKey(ctx context.Context, kind Kind, key string, delta Delta, dispatch Dispatch) (Balance, error) {
	if err := e.track(key, kind); err != nil {
		return e.store.Balance(), err
	}
	defer e.untrack(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.Closed() {
		return Balance{}, ErrStoreClosed
	}

	prev := e.store.Balance()
	e.store.Apply(delta)

	res, err := dispatch(ctx, key)
	if err != nil {
		// Exact restore of the pre-mutation snapshot. The store
		// ignores the write if the session was torn down while the
		// dispatch was in flight.
		e.store.SetBalance(prev)
		e.log.Warn("mutation rolled back", "kind", kind, "key", key, "err", err)
		return e.store.Balance(), err
	}

	e.reconcile(ctx, kind, delta, res)
	return e.store.Balance(), nil
}

// reconcile overwrites cached fields with the server's values verbatim.
// The optimistic value is only a placeholder: any field the mutation
// touched that the server did not return triggers a full refetch rather
// than trusting the guess indefinitely.
func (e *Engine) reconcile(ctx context.Context, kind Kind, delta Delta, res *Result) {
	if res != nil {
		if res.Tokens != nil {
			e.store.SetTokens(*res.Tokens)
		}
		if res.Tickets != nil {
			e.store.SetTickets(*res.Tickets)
		}
	}

	missingTokens := delta.Tokens != 0 && (res == nil || res.Tokens == nil)
	missingTickets := delta.Tickets != 0 && (res == nil || res.Tickets == nil)
	if !missingTokens && !missingTickets {
		return
	}
	if e.refetch == nil {
		e.log.Warn("no refetch configured; keeping optimistic balance", "kind", kind)
		return
	}

	var fresh Balance
	err := retry.Exponential(ctx, func() error {
		b, err := e.refetch(ctx)
		if err != nil {
			return err
		}
		fresh = b
		return nil
	}, retry.ExponentialConfig{
		InitialInterval: 200 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
	})
	if err != nil {
		e.log.Warn("balance refetch failed; keeping optimistic balance", "kind", kind, "err", err)
		return
	}
	e.store.SetBalance(fresh)
}

// PendingCount reports how many mutations are registered, including the
// one currently holding the engine.
func (e *Engine) PendingCount() int {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	return len(e.pending)
}

func (e *Engine) track(key string, kind Kind) error {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	if _, ok := e.pending[key]; ok {
		return ErrDuplicateMutation
	}
	e.pending[key] = kind
	return nil
}

func (e *Engine) untrack(key string) {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	delete(e.pending, key)
}
