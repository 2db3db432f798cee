package api

// Exchange directions; the server expects these literal values.
const (
	DirectionTokensToTickets = "tokens_to_tickets"
	DirectionTicketsToTokens = "tickets_to_tokens"
)

type EntryRequest struct {
	Number         string `json:"number"`
	IdempotencyKey string `json:"idempotency_key"`
}

type EntryResponse struct {
	Success       bool   `json:"success"`
	TicketBalance *int64 `json:"ticket_balance,omitempty"`
}

type ExchangeRequest struct {
	Direction      string `json:"direction"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

type ExchangeResponse struct {
	Success       bool   `json:"success"`
	TokenBalance  *int64 `json:"token_balance,omitempty"`
	TicketBalance *int64 `json:"ticket_balance,omitempty"`
}

type SpinRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// Outcome is the server-chosen wheel result. Index is the contract
// between client and server: it addresses a segment of the wheel in
// fixed clockwise order.
type Outcome struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Tokens int64  `json:"tokens"`
	Respin bool   `json:"respin"`
}

// WheelFingerprint is the server's outcome table, embedded in every
// spin response so the client can verify its own segment table matches.
type WheelFingerprint struct {
	Version int      `json:"version"`
	Labels  []string `json:"labels"`
}

type SpinResponse struct {
	Outcome       Outcome           `json:"outcome"`
	TokenBalance  *int64            `json:"token_balance,omitempty"`
	TicketBalance *int64            `json:"ticket_balance,omitempty"`
	Wheel         *WheelFingerprint `json:"wheel,omitempty"`
}

type ProfileResponse struct {
	TokenBalance       int64  `json:"token_balance"`
	TicketBalance      int64  `json:"ticket_balance"`
	SubscriptionStatus string `json:"subscription_status"`
	Email              string `json:"email,omitempty"`
}

type Draw struct {
	DrawID    string `json:"draw_id"`
	WeekStart string `json:"week_start"` // YYYY-MM-DD, draw closes at its midnight
	Status    string `json:"status"`
}

type Entry struct {
	Number              string `json:"number"`
	DrawID              string `json:"draw_id,omitempty"`
	SubscriptionAtEntry string `json:"subscription_at_entry,omitempty"`
}

type CurrentDrawResponse struct {
	Draw          *Draw   `json:"draw"`
	UserEntries   []Entry `json:"user_entries"`
	TokenBalance  int64   `json:"token_balance"`
	TicketBalance int64   `json:"ticket_balance"`
}

type CompletedDraw struct {
	DrawID        string `json:"draw_id"`
	WinningNumber string `json:"winning_number,omitempty"`
}

type DrawHistoryResponse struct {
	Draws []CompletedDraw `json:"draws"`
}

type EntryHistoryResponse struct {
	Entries []Entry `json:"entries"`
}

type SpinRecord struct {
	SpinID    string `json:"spin_id"`
	TokensWon int64  `json:"tokens_won"`
	CreatedAt string `json:"created_at"`
}

type SpinHistoryResponse struct {
	Spins []SpinRecord `json:"spins"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
