package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"syncportal/internal/gateway"
	"syncportal/internal/models"
	"syncportal/internal/review"
)

type stubLedger struct {
	res   gateway.Result[models.LedgerReceipt]
	calls int
}

func (s *stubLedger) VerifyLedger(ctx context.Context) gateway.Result[models.LedgerReceipt] {
	s.calls++
	return s.res
}

func verifiedLedger() *stubLedger {
	return &stubLedger{res: gateway.Result[models.LedgerReceipt]{
		Source: gateway.SourceLive,
		Value:  models.LedgerReceipt{IsVerified: true, BlockchainHash: "0xabc", Ledger: "test"},
	}}
}

func trailEquals(got []State, want ...State) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{StateIdle, StateCheckingRecord, true},
		{StateIdle, StateValid, false},
		{StateCheckingRecord, StateCheckingLedger, true},
		{StateCheckingRecord, StateInvalid, true},
		{StateCheckingRecord, StateValid, false},
		{StateCheckingLedger, StateValid, true},
		{StateCheckingLedger, StateInvalid, true},
		{StateValid, StateIdle, false},
		{StateInvalid, StateCheckingRecord, false},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.to)
		if tc.ok && (err != nil || got != tc.to) {
			t.Fatalf("%s -> %s: expected ok, got %s %v", tc.from, tc.to, got, err)
		}
		if !tc.ok && (!errors.Is(err, ErrInvalidTransition) || got != tc.from) {
			t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %s %v", tc.from, tc.to, got, err)
		}
	}
}

func TestSentinelCodeIsValid(t *testing.T) {
	ledger := verifiedLedger()
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	v := NewVerifier(ledger, q, zerolog.Nop())

	out, err := v.Verify(context.Background(), "VALID123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.State != StateValid || !trailEquals(out.Trail, StateIdle, StateCheckingRecord, StateCheckingLedger, StateValid) {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Receipt == nil || out.Receipt.BlockchainHash != "0xabc" || out.Source != gateway.SourceLive {
		t.Fatalf("expected receipt from ledger, got %+v", out)
	}
	if ledger.calls != 1 {
		t.Fatalf("expected one ledger call, got %d", ledger.calls)
	}
	all, _ := q.All(context.Background())
	if len(all) != 0 {
		t.Fatalf("valid certificate must not be queued, got %+v", all)
	}
}

func TestUnknownCodeIsQueued(t *testing.T) {
	ledger := verifiedLedger()
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	v := NewVerifier(ledger, q, zerolog.Nop())

	out, err := v.Verify(context.Background(), "ABC999")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.State != StateInvalid || !trailEquals(out.Trail, StateIdle, StateCheckingRecord, StateInvalid) {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if ledger.calls != 0 {
		t.Fatal("ledger must not be consulted for unknown codes")
	}

	pending, _ := q.ListPending(context.Background())
	if len(pending) != 1 {
		t.Fatalf("expected one queued item, got %d", len(pending))
	}
	item := pending[0]
	if item.Kind != models.PendingKindInvalidCert || item.Detail != "Invalid certificate code attempt: ABC999" || item.ID != out.ReviewItemID {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestEmptyCodeStaysIdle(t *testing.T) {
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	v := NewVerifier(verifiedLedger(), q, zerolog.Nop())

	out, err := v.Verify(context.Background(), "")
	if !errors.Is(err, ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
	if out.State != StateIdle {
		t.Fatalf("expected IDLE, got %s", out.State)
	}
	all, _ := q.All(context.Background())
	if len(all) != 0 {
		t.Fatal("empty code must not be queued")
	}
}

func TestCodeIsComparedAsSubmitted(t *testing.T) {
	ledger := verifiedLedger()
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	v := NewVerifier(ledger, q, zerolog.Nop())
	ctx := context.Background()

	for _, code := range []string{"   ", " VALID123", "VALID123 ", "valid123"} {
		out, err := v.Verify(ctx, code)
		if err != nil {
			t.Fatalf("%q: verify: %v", code, err)
		}
		if out.State != StateInvalid || out.ReviewItemID == "" {
			t.Fatalf("%q: expected INVALID with a review item, got %+v", code, out)
		}
	}
	if ledger.calls != 0 {
		t.Fatal("ledger must not be consulted for codes that differ from the sentinel")
	}

	pending, _ := q.ListPending(ctx)
	if len(pending) != 4 || pending[0].Detail != "Invalid certificate code attempt:    " {
		t.Fatalf("unexpected queue %+v", pending)
	}
}

func TestUnconfirmedLedgerIsInvalid(t *testing.T) {
	ledger := &stubLedger{res: gateway.Result[models.LedgerReceipt]{Source: gateway.SourceLive, Value: models.LedgerReceipt{IsVerified: false}}}
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	v := NewVerifier(ledger, q, zerolog.Nop())

	out, err := v.Verify(context.Background(), "VALID123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.State != StateInvalid || out.Receipt != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !trailEquals(out.Trail, StateIdle, StateCheckingRecord, StateCheckingLedger, StateInvalid) {
		t.Fatalf("unexpected trail %v", out.Trail)
	}
}

type failingRecorder struct{}

func (failingRecorder) Append(ctx context.Context, kind models.PendingKind, detail string) (models.PendingItem, error) {
	return models.PendingItem{}, errors.New("store down")
}

func TestRecorderFailureSurfaces(t *testing.T) {
	v := NewVerifier(verifiedLedger(), failingRecorder{}, zerolog.Nop())
	out, err := v.Verify(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected recorder error")
	}
	if out.State != StateInvalid {
		t.Fatalf("expected INVALID, got %s", out.State)
	}
}
