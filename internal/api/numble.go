package api

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// Client exposes the typed Numble operations. The server is the source
// of truth for every balance and every random draw; nothing here
// computes an outcome locally.
type Client struct {
	base *BaseClient
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{base: NewBaseClient(baseURL, token, timeout)}
}

// SubmitEntry submits a 3-digit guess for the current draw. The
// idempotency key makes duplicate clicks and network-level retries safe
// server-side.
func (c *Client) SubmitEntry(ctx context.Context, number, idempotencyKey string) (*EntryResponse, error) {
	return getResponse[EntryResponse](ctx, c.base, http.MethodPost, "/entries", EntryRequest{
		Number:         number,
		IdempotencyKey: idempotencyKey,
	}, nil)
}

func (c *Client) Exchange(ctx context.Context, direction string, amount int64, idempotencyKey string) (*ExchangeResponse, error) {
	return getResponse[ExchangeResponse](ctx, c.base, http.MethodPost, "/profile/exchange", ExchangeRequest{
		Direction:      direction,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	}, nil)
}

func (c *Client) Spin(ctx context.Context, idempotencyKey string) (*SpinResponse, error) {
	return getResponse[SpinResponse](ctx, c.base, http.MethodPost, "/spin", SpinRequest{
		IdempotencyKey: idempotencyKey,
	}, nil)
}

func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	return getResponse[ProfileResponse](ctx, c.base, http.MethodGet, "/profile", nil, nil)
}

func (c *Client) CurrentDraw(ctx context.Context) (*CurrentDrawResponse, error) {
	return getResponse[CurrentDrawResponse](ctx, c.base, http.MethodGet, "/draws/current", nil, nil)
}

// LatestCompletedDraw returns the most recent draw, which may not have
// a winning number yet.
func (c *Client) LatestCompletedDraw(ctx context.Context) (*CompletedDraw, error) {
	resp, err := getResponse[DrawHistoryResponse](ctx, c.base, http.MethodGet, "/draws/history", nil, map[string]string{
		"limit": "1",
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Draws) == 0 {
		return nil, nil
	}
	return &resp.Draws[0], nil
}

// OwnEntries returns the caller's entries for drawID.
func (c *Client) OwnEntries(ctx context.Context, drawID string) ([]Entry, error) {
	resp, err := getResponse[EntryHistoryResponse](ctx, c.base, http.MethodGet, "/entries/history", nil, map[string]string{
		"limit": "50",
	})
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		if e.DrawID == drawID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (c *Client) SpinHistory(ctx context.Context, limit int) ([]SpinRecord, error) {
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	resp, err := getResponse[SpinHistoryResponse](ctx, c.base, http.MethodGet, "/spin/history", nil, params)
	if err != nil {
		return nil, err
	}
	return resp.Spins, nil
}

// BuyTokenPack starts a token pack checkout and returns the external
// checkout URL. No balance changes locally until the purchase lands
// server-side.
func (c *Client) BuyTokenPack(ctx context.Context) (*CheckoutResponse, error) {
	return getResponse[CheckoutResponse](ctx, c.base, http.MethodPost, "/stripe/buy-tokens", nil, nil)
}
