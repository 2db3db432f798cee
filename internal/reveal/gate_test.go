package reveal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salumastake-code/numble-go/internal/api"
	"github.com/salumastake-code/numble-go/pkg/kvstore"
)

type fakeSource struct {
	draw       *api.CompletedDraw
	drawErr    error
	entries    []api.Entry
	entriesErr error
}

func (f *fakeSource) LatestCompletedDraw(ctx context.Context) (*api.CompletedDraw, error) {
	return f.draw, f.drawErr
}

func (f *fakeSource) OwnEntries(ctx context.Context, drawID string) ([]api.Entry, error) {
	return f.entries, f.entriesErr
}

func TestGate_RevealExactlyOnce(t *testing.T) {
	source := &fakeSource{
		draw:    &api.CompletedDraw{DrawID: "draw-1", WinningNumber: "482"},
		entries: []api.Entry{{Number: "482", SubscriptionAtEntry: "paid"}},
	}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	first, err := gate.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, TierExact, first.Tier)

	second, err := gate.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, second, "same draw must not be revealed twice")
}

func TestGate_ExactlyOnceUnderConcurrency(t *testing.T) {
	source := &fakeSource{
		draw: &api.CompletedDraw{DrawID: "draw-7", WinningNumber: "123"},
	}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	const loads = 10
	var wg sync.WaitGroup
	reveals := make(chan *Reveal, loads)
	for i := 0; i < loads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rev, err := gate.Check(context.Background())
			if err == nil && rev != nil {
				reveals <- rev
			}
		}()
	}
	wg.Wait()
	close(reveals)

	assert.Equal(t, 1, len(reveals), "two near-simultaneous loads must not both present")
}

func TestGate_NewDrawRevealsAgain(t *testing.T) {
	source := &fakeSource{draw: &api.CompletedDraw{DrawID: "draw-1", WinningNumber: "482"}}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	first, err := gate.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	source.draw = &api.CompletedDraw{DrawID: "draw-2", WinningNumber: "913"}
	second, err := gate.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "913", second.Winning)
}

func TestGate_NoCompletedDraw(t *testing.T) {
	gate := NewGate(&fakeSource{}, kvstore.NewMemoryStore(), nil)

	rev, err := gate.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rev)
}

func TestGate_PendingDrawWithoutWinningNumber(t *testing.T) {
	source := &fakeSource{draw: &api.CompletedDraw{DrawID: "draw-3"}}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	rev, err := gate.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rev)

	// The marker must not have been claimed: once the winning number
	// lands, the reveal still happens.
	source.draw.WinningNumber = "482"
	rev, err = gate.Check(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rev)
}

func TestGate_NoEntriesIsNeutral(t *testing.T) {
	source := &fakeSource{draw: &api.CompletedDraw{DrawID: "draw-4", WinningNumber: "482"}}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	rev, err := gate.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rev)

	assert.Equal(t, TierNone, rev.Tier)
	assert.Empty(t, rev.Entry)
	assert.Contains(t, rev.Detail, "482")
}

func TestGate_EntryFetchFailureDegradesToNeutral(t *testing.T) {
	source := &fakeSource{
		draw:       &api.CompletedDraw{DrawID: "draw-5", WinningNumber: "482"},
		entriesErr: errors.New("listing down"),
	}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	rev, err := gate.Check(context.Background())
	require.NoError(t, err, "listing failures never block the reveal")
	require.NotNil(t, rev)
	assert.Equal(t, TierNone, rev.Tier)
}

func TestGate_DrawFetchFailure(t *testing.T) {
	source := &fakeSource{drawErr: errors.New("api down")}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	rev, err := gate.Check(context.Background())
	assert.Error(t, err)
	assert.Nil(t, rev)
}

func TestGate_PrizeOnReveal(t *testing.T) {
	source := &fakeSource{
		draw:    &api.CompletedDraw{DrawID: "draw-6", WinningNumber: "482"},
		entries: []api.Entry{{Number: "248", SubscriptionAtEntry: "free"}},
	}
	gate := NewGate(source, kvstore.NewMemoryStore(), nil)

	rev, err := gate.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rev)

	assert.Equal(t, TierAnagram, rev.Tier)
	assert.Equal(t, "5", rev.Prize.Dollars.StringFixed(0))
	assert.Contains(t, rev.Title, "$5")
}
