package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"syncportal/internal/gateway"
	"syncportal/internal/identity"
	"syncportal/internal/models"
	"syncportal/internal/review"
	"syncportal/internal/session"
)

// offlineValidator behaves like the gateway with the backend down.
type offlineValidator struct{}

func (offlineValidator) ValidateID(ctx context.Context, nationalID string) gateway.Result[models.IdentityCheck] {
	return gateway.Result[models.IdentityCheck]{
		Source: gateway.SourceFallback,
		Value:  models.IdentityCheck{IsValid: identity.Valid(nationalID), Message: "offline"},
	}
}

func newTestService(t *testing.T) (*AuthService, *review.Queue, *session.Manager) {
	t.Helper()
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	m := session.NewManager("test-secret", time.Hour, 5*time.Minute, session.NewMemoryDenylist())
	svc, err := NewAuthService(offlineValidator{}, q, m, zerolog.Nop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, q, m
}

func ticketFor(t *testing.T, svc *AuthService) string {
	t.Helper()
	res, err := svc.CheckIdentifier(context.Background(), "1000000008")
	if err != nil {
		t.Fatalf("check identifier: %v", err)
	}
	if res.Ticket == "" {
		t.Fatal("expected ticket")
	}
	return res.Ticket
}

func TestInvalidIdentifierIsQueued(t *testing.T) {
	svc, q, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CheckIdentifier(ctx, "310")
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
	if res.Ticket != "" {
		t.Fatal("no ticket for a rejected identifier")
	}

	pending, _ := q.ListPending(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected one item, got %d", len(pending))
	}
	if pending[0].Kind != models.PendingKindInvalidIdentifier || pending[0].Detail != "Failed Luhn check for ID: 310" {
		t.Fatalf("unexpected item %+v", pending[0])
	}
	for _, p := range pending {
		if p.Kind == models.PendingKindLoginFailure {
			t.Fatal("identifier failure must not create a login failure")
		}
	}
}

func TestIdentifierShapeIsReported(t *testing.T) {
	svc, q, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CheckIdentifier(ctx, "1000000008")
	if err != nil || !res.WellFormed {
		t.Fatalf("expected a well-formed national id, got %+v %v", res, err)
	}

	res, err = svc.CheckIdentifier(ctx, "79927398713")
	if err != nil {
		t.Fatalf("checksum-valid identifier must be accepted: %v", err)
	}
	if res.WellFormed || res.Ticket == "" {
		t.Fatalf("expected ticket without well-formed flag, got %+v", res)
	}

	if _, err := svc.CheckIdentifier(ctx, " 1000000008"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("padded identifier must be rejected, got %v", err)
	}
	pending, _ := q.ListPending(ctx)
	if len(pending) != 1 || pending[0].Detail != "Failed Luhn check for ID:  1000000008" {
		t.Fatalf("unexpected queue %+v", pending)
	}
}

func TestLoginRoles(t *testing.T) {
	cases := []struct {
		username string
		role     models.UserRole
	}{
		{"student", models.UserRoleStudent},
		{"hr", models.UserRoleHR},
	}
	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			svc, q, m := newTestService(t)
			ctx := context.Background()

			res, err := svc.Login(ctx, ticketFor(t, svc), tc.username, "1234")
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if role, _ := res.State.Role(); role != tc.role {
				t.Fatalf("expected %s, got %s", tc.role, role)
			}
			resolved, err := m.Resolve(ctx, res.Token)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if role, _ := resolved.Role(); role != tc.role {
				t.Fatalf("token carries %s, want %s", role, tc.role)
			}
			all, _ := q.All(ctx)
			if len(all) != 0 {
				t.Fatalf("successful login must not queue, got %+v", all)
			}
		})
	}
}

func TestBadCredentialsAreQueued(t *testing.T) {
	cases := []struct{ username, password string }{
		{"student", "0000"},
		{"hr", ""},
		{"mallory", "1234"},
		{" student", "1234"},
	}
	for _, tc := range cases {
		svc, q, _ := newTestService(t)
		ctx := context.Background()

		if _, err := svc.Login(ctx, ticketFor(t, svc), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s/%s: expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
		pending, _ := q.ListPending(ctx)
		if len(pending) != 1 || pending[0].Kind != models.PendingKindLoginFailure || pending[0].Detail != "Failed login attempt for user: "+tc.username {
			t.Fatalf("%s: unexpected queue %+v", tc.username, pending)
		}
	}
}

func TestLoginRequiresIdentityTicket(t *testing.T) {
	svc, q, _ := newTestService(t)
	ctx := context.Background()

	for _, ticket := range []string{"", "not-a-token"} {
		if _, err := svc.Login(ctx, ticket, "student", "1234"); !errors.Is(err, ErrIdentityRequired) {
			t.Fatalf("expected ErrIdentityRequired, got %v", err)
		}
	}
	all, _ := q.All(ctx)
	if len(all) != 0 {
		t.Fatal("missing ticket must not queue")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, m := newTestService(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, ticketFor(t, svc), "hr", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, res.State); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := m.Resolve(ctx, res.Token); !errors.Is(err, session.ErrRevoked) {
		t.Fatalf("expected revoked session, got %v", err)
	}
}
