package events

import (
	"encoding/json"
	"time"
)

const (
	TypeSettlement Type = "settlement"
	TypeOutcome    Type = "spin_outcome"
	TypeReveal     Type = "reveal"
)

type Type string

// Event is one client-side economy event, published for external
// tooling (session recorders, dashboards). Emission is best-effort:
// failures are logged by callers and never reach the mutation flow.
type Event struct {
	Type      Type  `json:"type"`
	Data      any   `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

type Settlement struct {
	Kind    string `json:"kind"`
	Tokens  int64  `json:"tokens"`
	Tickets int64  `json:"tickets"`
}

type SpinOutcome struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Tokens int64  `json:"tokens"`
	Respin bool   `json:"respin"`
}

type Emitter interface {
	EmitSettlement(s Settlement) error
	EmitOutcome(o SpinOutcome) error
	EmitReveal(drawID, tier string) error
	Close()
}

func newEvent(t Type, data any) Event {
	return Event{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UTC().Unix(),
	}
}

func marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// NopEmitter drops every event; used when no NATS URL is configured.
type NopEmitter struct{}

func (NopEmitter) EmitSettlement(Settlement) error { return nil }

func (NopEmitter) EmitOutcome(SpinOutcome) error { return nil }

func (NopEmitter) EmitReveal(string, string) error { return nil }

func (NopEmitter) Close() {}
