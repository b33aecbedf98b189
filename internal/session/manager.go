package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"syncportal/internal/ids"
	"syncportal/internal/models"
)

const (
	audienceSession  = "sync-session"
	audienceIdentity = "sync-identity"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("session revoked")
)

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TicketClaims struct {
	NationalID string `json:"nid"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret    []byte
	ttl       time.Duration
	ticketTTL time.Duration
	denylist  Denylist
	now       func() time.Time
}

func NewManager(secret string, ttl time.Duration, ticketTTL time.Duration, denylist Denylist) *Manager {
	return &Manager{
		secret:    []byte(secret),
		ttl:       ttl,
		ticketTTL: ticketTTL,
		denylist:  denylist,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for issuing and validating tokens.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs st into a session token.
func (m *Manager) Issue(st State) (string, State, error) {
	role, ok := st.Role()
	if !ok {
		return "", State{}, ErrUnauthenticated
	}

	now := m.now()
	issued := State{
		role:      role,
		tokenID:   ids.New(),
		expiresAt: now.Add(m.ttl),
	}

	claims := SessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        issued.tokenID,
			Subject:   string(role),
			Audience:  jwt.ClaimStrings{audienceSession},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(issued.expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
	if err != nil {
		return "", State{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, issued, nil
}

// Resolve turns a session token back into a State. Expired, forged and
// revoked tokens are rejected.
func (m *Manager) Resolve(ctx context.Context, token string) (State, error) {
	claims := &SessionClaims{}
	if err := m.parse(token, claims, audienceSession); err != nil {
		return State{}, err
	}

	role := models.UserRole(claims.Role)
	if !role.Valid() {
		return State{}, ErrInvalidRole
	}

	if m.denylist != nil {
		revoked, err := m.denylist.Revoked(ctx, claims.ID)
		if err != nil {
			return State{}, fmt.Errorf("check denylist: %w", err)
		}
		if revoked {
			return State{}, ErrRevoked
		}
	}

	return State{
		role:      role,
		tokenID:   claims.ID,
		expiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke keeps st's token from resolving again until it would have expired.
func (m *Manager) Revoke(ctx context.Context, st State) error {
	if m.denylist == nil || st.tokenID == "" {
		return nil
	}
	ttl := st.expiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.denylist.Revoke(ctx, st.tokenID, ttl)
}

// IssueTicket proves that nationalID passed the identifier check; the
// credential step requires it.
func (m *Manager) IssueTicket(nationalID string) (string, error) {
	now := m.now()
	claims := TicketClaims{
		NationalID: nationalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ids.New(),
			Audience:  jwt.ClaimStrings{audienceIdentity},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ticketTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign ticket: %w", err)
	}
	return signed, nil
}

func (m *Manager) ParseTicket(token string) (string, error) {
	claims := &TicketClaims{}
	if err := m.parse(token, claims, audienceIdentity); err != nil {
		return "", err
	}
	if claims.NationalID == "" {
		return "", ErrInvalidToken
	}
	return claims.NationalID, nil
}

func (m *Manager) parse(token string, claims jwt.Claims, audience string) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
