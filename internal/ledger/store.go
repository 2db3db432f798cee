package ledger

import (
	"sync"
)

// Balance is the cached copy of the server's two-currency economy
// state. It may be optimistic while a mutation is in flight; after any
// settled mutation it must equal the last server-provided values.
type Balance struct {
	Tokens  int64
	Tickets int64
}

// Delta is the optimistic change a mutation declares up front. Applying
// a delta clamps each field at zero, mirroring the server's rules.
type Delta struct {
	Tokens  int64
	Tickets int64
}

func applyDelta(b Balance, d Delta) Balance {
	next := Balance{
		Tokens:  b.Tokens + d.Tokens,
		Tickets: b.Tickets + d.Tickets,
	}
	if next.Tokens < 0 {
		next.Tokens = 0
	}
	if next.Tickets < 0 {
		next.Tickets = 0
	}
	return next
}

// Store holds the session's cached balances and current-draw entries.
// It is constructed at session start and closed at sign-out; a closed
// store ignores writes so a late-settling mutation cannot resurrect
// state that has been torn down.
type Store struct {
	mu      sync.Mutex
	balance Balance
	entries []string
	closed  bool
}

func NewStore(initial Balance) *Store {
	return &Store{balance: initial}
}

func (s *Store) Balance() Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Apply applies a delta to the current balance (read-then-write) and
// returns the result. It never suspends.
func (s *Store) Apply(d Delta) Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.balance
	}
	s.balance = applyDelta(s.balance, d)
	return s.balance
}

// SetBalance overwrites both fields verbatim. Used for authoritative
// server values and for exact rollback.
func (s *Store) SetBalance(b Balance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.balance = b
}

// SetTokens overwrites only the token balance with an authoritative
// server value.
func (s *Store) SetTokens(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.balance.Tokens = v
}

// SetTickets overwrites only the ticket balance with an authoritative
// server value.
func (s *Store) SetTickets(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.balance.Tickets = v
}

func (s *Store) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) SetEntries(entries []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.entries = append([]string(nil), entries...)
}

func (s *Store) AddEntry(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.entries = append(s.entries, number)
}

// Close tears the store down. All subsequent writes are no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
