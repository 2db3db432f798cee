package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salumastake-code/numble-go/internal/api"
	"github.com/salumastake-code/numble-go/internal/events"
	"github.com/salumastake-code/numble-go/internal/ledger"
	"github.com/salumastake-code/numble-go/internal/wheel"
)

// SpinResult summarizes one spin chain: every outcome the server
// produced (respins included), how many animations played, and the
// settled balance.
type SpinResult struct {
	Outcomes   []api.Outcome
	Animations int
	Balance    ledger.Balance
	// Interrupted is set when a respin dispatch failed mid-chain; the
	// balance still reflects the last authoritative server response.
	Interrupted bool
}

// Final returns the terminal (non-respin) outcome, if the chain
// reached one.
func (r *SpinResult) Final() *api.Outcome {
	for i := len(r.Outcomes) - 1; i >= 0; i-- {
		if !r.Outcomes[i].Respin {
			return &r.Outcomes[i]
		}
	}
	return nil
}

// Spin runs one full wheel spin: the cost is deducted optimistically,
// the server chooses the outcome, the animation lands on it, and a
// respin outcome chains another free spin until a terminal outcome.
// The whole chain is a single engine mutation: one cost deduction, one
// settlement against the terminal response's balances. A failed first
// dispatch rolls the cost back and plays no animation.
func (s *Session) Spin(ctx context.Context, onFrame func(rotation float64)) (*SpinResult, error) {
	if s.store.Balance().Tokens < SpinCost {
		s.notify.Error(fmt.Sprintf("You need %d tokens to spin!", SpinCost))
		return nil, ErrInsufficientTokens
	}

	result := &SpinResult{}
	balance, err := s.engine.Do(ctx, ledger.KindSpin, ledger.Delta{Tokens: -SpinCost},
		func(ctx context.Context, key string) (*ledger.Result, error) {
			return s.spinChain(ctx, key, result, onFrame)
		})
	if err != nil {
		s.notify.Error(userMessage(err, "Spin failed"))
		return nil, err
	}

	result.Balance = balance
	s.notifyOutcome(result)
	s.emitSettlement(ledger.KindSpin, balance)
	return result, nil
}

func (s *Session) spinChain(ctx context.Context, key string, result *SpinResult, onFrame func(float64)) (*ledger.Result, error) {
	var last *api.SpinResponse
	for {
		resp, err := s.gw.Spin(ctx, key)
		if err != nil {
			if last == nil {
				// First spin failed: roll back, no animation.
				return nil, err
			}
			// A free respin failed mid-chain. The previous responses
			// already settled server-side, so reconcile with the last
			// authoritative balances instead of rolling back the cost.
			s.log.Warn("respin dispatch failed, settling with last response", "err", err)
			result.Interrupted = true
			return &ledger.Result{Tokens: last.TokenBalance, Tickets: last.TicketBalance}, nil
		}
		last = resp
		result.Outcomes = append(result.Outcomes, resp.Outcome)

		if err := s.verifyOutcome(resp); err != nil {
			// The ledger stays correct either way; the cosmetic layer
			// is not allowed to disagree with it, so no animation.
			s.log.Error("wheel schema check failed, skipping animation", "err", err)
			s.notify.Error("Wheel display is out of date; balances are unaffected")
		} else {
			if _, err := s.animator.Run(ctx, resp.Outcome.Index, onFrame); err != nil {
				s.log.Debug("spin animation cut short", "err", err)
			}
			result.Animations++
		}

		if emitErr := s.emit.EmitOutcome(events.SpinOutcome{
			Index:  resp.Outcome.Index,
			Label:  resp.Outcome.Label,
			Tokens: resp.Outcome.Tokens,
			Respin: resp.Outcome.Respin,
		}); emitErr != nil {
			s.log.Warn("outcome event emission failed", "err", emitErr)
		}

		if !resp.Outcome.Respin {
			return &ledger.Result{Tokens: resp.TokenBalance, Tickets: resp.TicketBalance}, nil
		}

		// Respin: another spin at no cost, under a fresh key.
		s.notify.Info("Free respin!")
		key = uuid.NewString()
	}
}

func (s *Session) verifyOutcome(resp *api.SpinResponse) error {
	if resp.Wheel != nil {
		if err := wheel.Verify(resp.Wheel.Version, resp.Wheel.Labels); err != nil {
			return err
		}
	}
	if resp.Outcome.Index < 0 || resp.Outcome.Index >= len(wheel.Segments()) {
		return fmt.Errorf("outcome index %d out of range", resp.Outcome.Index)
	}
	return nil
}

func (s *Session) notifyOutcome(result *SpinResult) {
	final := result.Final()
	if final == nil {
		s.notify.Info("Spin interrupted; balances are up to date")
		return
	}
	switch {
	case final.Tokens > 0:
		s.notify.Success(fmt.Sprintf("+%d tokens won!", final.Tokens))
	default:
		s.notify.Info("Zero this time. Better luck next spin!")
	}
}
