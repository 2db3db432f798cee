package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDelta_ClampsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		start Balance
		delta Delta
		want  Balance
	}{
		{"plain add", Balance{Tokens: 500, Tickets: 2}, Delta{Tokens: 100}, Balance{Tokens: 600, Tickets: 2}},
		{"plain subtract", Balance{Tokens: 1500, Tickets: 2}, Delta{Tokens: -1000}, Balance{Tokens: 500, Tickets: 2}},
		{"tokens clamp", Balance{Tokens: 300}, Delta{Tokens: -1000}, Balance{Tokens: 0}},
		{"tickets clamp", Balance{Tickets: 1}, Delta{Tickets: -2}, Balance{Tickets: 0}},
		{"exchange both fields", Balance{Tokens: 2500, Tickets: 1}, Delta{Tokens: -2000, Tickets: 2}, Balance{Tokens: 500, Tickets: 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, applyDelta(tc.start, tc.delta))
		})
	}
}

func TestStore_ApplyAndSet(t *testing.T) {
	store := NewStore(Balance{Tokens: 1000, Tickets: 1})

	got := store.Apply(Delta{Tokens: -1000})
	assert.Equal(t, Balance{Tokens: 0, Tickets: 1}, got)

	store.SetBalance(Balance{Tokens: 2500, Tickets: 3})
	assert.Equal(t, Balance{Tokens: 2500, Tickets: 3}, store.Balance())

	store.SetTokens(99)
	assert.Equal(t, Balance{Tokens: 99, Tickets: 3}, store.Balance())

	store.SetTickets(7)
	assert.Equal(t, Balance{Tokens: 99, Tickets: 7}, store.Balance())
}

func TestStore_ClosedIgnoresWrites(t *testing.T) {
	store := NewStore(Balance{Tokens: 100})
	store.Close()

	store.Apply(Delta{Tokens: 50})
	store.SetBalance(Balance{Tokens: 999})
	store.SetTokens(1)
	store.SetEntries([]string{"123"})

	assert.True(t, store.Closed())
	assert.Equal(t, Balance{Tokens: 100}, store.Balance())
	assert.Empty(t, store.Entries())
}

func TestStore_Entries(t *testing.T) {
	store := NewStore(Balance{})
	store.SetEntries([]string{"123", "456"})
	store.AddEntry("789")

	assert.Equal(t, []string{"123", "456", "789"}, store.Entries())

	// Returned slice is a copy.
	entries := store.Entries()
	entries[0] = "000"
	assert.Equal(t, []string{"123", "456", "789"}, store.Entries())
}
