package reveal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salumastake-code/numble-go/internal/api"
	"github.com/salumastake-code/numble-go/pkg/kvstore"
)

const markerPrefix = "seen/"

// DrawSource is the read-only slice of the remote API the gate needs.
type DrawSource interface {
	LatestCompletedDraw(ctx context.Context) (*api.CompletedDraw, error)
	OwnEntries(ctx context.Context, drawID string) ([]api.Entry, error)
}

// Reveal is the one-time presentation of a completed draw's result.
type Reveal struct {
	DrawID  string
	Winning string
	Tier    Tier
	Entry   string // best entry, empty when the user had none
	Title   string
	Detail  string
	Prize   Prize
}

// Gate shows each completed draw's result to this device exactly once.
// The durable marker is claimed before any classification work, so a
// crash mid-presentation skips the reveal rather than repeating it.
type Gate struct {
	source  DrawSource
	markers kvstore.Store
	log     *slog.Logger
}

func NewGate(source DrawSource, markers kvstore.Store, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{source: source, markers: markers, log: log}
}

// Check fetches the latest completed draw and returns its reveal, or
// nil when there is nothing new to show. Calling it again for the same
// draw returns nil: the marker check-and-set is atomic in the store.
func (g *Gate) Check(ctx context.Context) (*Reveal, error) {
	draw, err := g.source.LatestCompletedDraw(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest draw: %w", err)
	}
	if draw == nil || draw.WinningNumber == "" {
		return nil, nil
	}

	first, err := g.markers.SetIfAbsent(markerPrefix+draw.DrawID, []byte("1"))
	if err != nil {
		return nil, fmt.Errorf("claim seen marker: %w", err)
	}
	if !first {
		return nil, nil
	}

	// Own entries are best-effort enrichment: a failed fetch degrades
	// to the neutral reveal, it never suppresses the reveal.
	entries, err := g.source.OwnEntries(ctx, draw.DrawID)
	if err != nil {
		g.log.Warn("entry history unavailable, showing neutral reveal", "draw", draw.DrawID, "err", err)
		entries = nil
	}

	return g.build(draw, entries), nil
}

func (g *Gate) build(draw *api.CompletedDraw, entries []api.Entry) (rev *Reveal) {
	winning := draw.WinningNumber

	neutral := &Reveal{
		DrawID:  draw.DrawID,
		Winning: winning,
		Tier:    TierNone,
		Title:   "This week's number",
		Detail:  fmt.Sprintf("The winning number was %s. Enter next week for your chance!", winning),
	}

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("reveal classification failed", "draw", draw.DrawID, "panic", r)
			rev = neutral
		}
	}()

	if len(entries) == 0 {
		return neutral
	}

	best, tier := Best(entries, winning)
	rev = &Reveal{
		DrawID:  draw.DrawID,
		Winning: winning,
		Tier:    tier,
		Entry:   best.Number,
		Prize:   PrizeFor(tier, best.SubscriptionAtEntry),
	}

	switch tier {
	case TierExact:
		rev.Title = fmt.Sprintf("EXACT MATCH! $%s", rev.Prize.Dollars.StringFixed(0))
		rev.Detail = fmt.Sprintf("Winning number: %s. You matched exactly!", winning)
	case TierAnagram:
		rev.Title = fmt.Sprintf("ALL DIGITS! $%s", rev.Prize.Dollars.StringFixed(0))
		rev.Detail = fmt.Sprintf("Winning number: %s. Right digits, wrong order.", winning)
	case TierTwoPosition:
		rev.Title = "2 IN PLACE! +1 token"
		rev.Detail = fmt.Sprintf("Winning number: %s. 2 digits in position!", winning)
	case TierOnePosition:
		rev.Title = "1 in place"
		rev.Detail = fmt.Sprintf("Winning number: %s. One digit in position.", winning)
	default:
		rev.Title = "No win this week"
		rev.Detail = fmt.Sprintf("Winning number: %s. Better luck next week!", winning)
	}
	return rev
}

// Best returns the highest-tier entry for the winning number. Ties keep
// the earliest entry.
func Best(entries []api.Entry, winning string) (api.Entry, Tier) {
	var best api.Entry
	bestTier := TierNone
	for i, e := range entries {
		tier := Classify(e.Number, winning)
		if i == 0 || tier > bestTier {
			best = e
			bestTier = tier
		}
	}
	return best, bestTier
}
