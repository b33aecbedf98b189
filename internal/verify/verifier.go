// Package verify checks certificate codes against the records and the ledger.
package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"syncportal/internal/gateway"
	"syncportal/internal/models"
)

// SentinelCode is the only code the record lookup recognizes.
const SentinelCode = "VALID123"

var ErrEmptyCode = errors.New("certificate code required")

type Ledger interface {
	VerifyLedger(ctx context.Context) gateway.Result[models.LedgerReceipt]
}

type Recorder interface {
	Append(ctx context.Context, kind models.PendingKind, detail string) (models.PendingItem, error)
}

type Outcome struct {
	Code         string                `json:"code"`
	State        State                 `json:"state"`
	Trail        []State               `json:"trail"`
	Receipt      *models.LedgerReceipt `json:"receipt,omitempty"`
	Source       gateway.Source        `json:"source,omitempty"`
	ReviewItemID string                `json:"review_item_id,omitempty"`
}

func (o *Outcome) advance(to State) error {
	next, err := Transition(o.State, to)
	if err != nil {
		return fmt.Errorf("%s -> %s: %w", o.State, to, err)
	}
	o.State = next
	o.Trail = append(o.Trail, next)
	return nil
}

type Verifier struct {
	ledger   Ledger
	recorder Recorder
	log      zerolog.Logger
}

func NewVerifier(ledger Ledger, recorder Recorder, log zerolog.Logger) *Verifier {
	return &Verifier{ledger: ledger, recorder: recorder, log: log}
}

// Verify runs one submission from IDLE to a terminal state. The code is
// compared as submitted; unknown codes, blank ones included, are recorded
// for review.
func (v *Verifier) Verify(ctx context.Context, code string) (Outcome, error) {
	out := Outcome{Code: code, State: StateIdle, Trail: []State{StateIdle}}
	if code == "" {
		return out, ErrEmptyCode
	}

	if err := out.advance(StateCheckingRecord); err != nil {
		return out, err
	}

	if code != SentinelCode {
		if err := out.advance(StateInvalid); err != nil {
			return out, err
		}
		item, err := v.recorder.Append(ctx, models.PendingKindInvalidCert, "Invalid certificate code attempt: "+code)
		if err != nil {
			return out, fmt.Errorf("record invalid certificate: %w", err)
		}
		out.ReviewItemID = item.ID
		v.log.Info().Str("code", code).Str("review_item", item.ID).Msg("certificate not found")
		return out, nil
	}

	if err := out.advance(StateCheckingLedger); err != nil {
		return out, err
	}

	res := v.ledger.VerifyLedger(ctx)
	out.Source = res.Source
	if !res.Value.IsVerified {
		v.log.Warn().Str("code", code).Bool("live", res.Live()).Msg("ledger did not confirm certificate")
		return out, out.advance(StateInvalid)
	}

	receipt := res.Value
	out.Receipt = &receipt
	return out, out.advance(StateValid)
}
