package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 2*time.Second)
}

func TestSubmitEntry_SendsAuthAndKey(t *testing.T) {
	var gotAuth string
	var gotReq EntryRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(EntryResponse{Success: true, TicketBalance: ptr(int64(4))})
	})

	resp, err := client.SubmitEntry(context.Background(), "482", "key-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "482", gotReq.Number)
	assert.Equal(t, "key-1", gotReq.IdempotencyKey)
	require.NotNil(t, resp.TicketBalance)
	assert.Equal(t, int64(4), *resp.TicketBalance)
}

func TestSpin_DecodesOutcomeAndFingerprint(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SpinResponse{
			Outcome:      Outcome{Index: 3, Label: "200", Tokens: 200},
			TokenBalance: ptr(int64(1200)),
			Wheel:        &WheelFingerprint{Version: 1, Labels: []string{"RESPIN", "0", "100", "200"}},
		})
	})

	resp, err := client.Spin(context.Background(), "key-2")
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Outcome.Index)
	assert.Equal(t, int64(200), resp.Outcome.Tokens)
	require.NotNil(t, resp.Wheel)
	assert.Equal(t, []string{"RESPIN", "0", "100", "200"}, resp.Wheel.Labels)
}

func TestDo_ApplicationRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "insufficient balance", "code": "insufficient_balance"})
	})

	_, err := client.Spin(context.Background(), "key-3")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "insufficient balance", apiErr.Message)
	assert.Equal(t, "insufficient_balance", apiErr.Code)
	assert.False(t, apiErr.Transient())
}

func TestDo_ServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Transient())
}

func TestDo_NetworkErrorIsTransient(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)

	_, err := client.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.True(t, apiErr.Transient())
}

func TestLatestCompletedDraw_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(DrawHistoryResponse{})
	})

	draw, err := client.LatestCompletedDraw(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draw)
}

func TestOwnEntries_FiltersByDraw(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EntryHistoryResponse{Entries: []Entry{
			{Number: "123", DrawID: "draw-1"},
			{Number: "456", DrawID: "draw-2"},
			{Number: "789", DrawID: "draw-1"},
		}})
	})

	entries, err := client.OwnEntries(context.Background(), "draw-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "123", entries[0].Number)
	assert.Equal(t, "789", entries[1].Number)
}

func ptr[T any](v T) *T { return &v }
