// Package session holds the authenticated role of one client. A State starts
// unauthenticated, Login sets the role and Logout clears it. The Manager
// carries a State between requests as a signed token; nothing is persisted
// server side apart from revoked token ids.
package session

import (
	"errors"
	"time"

	"syncportal/internal/models"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInvalidRole     = errors.New("invalid role")
)

type State struct {
	role      models.UserRole
	tokenID   string
	expiresAt time.Time
}

func (s *State) Login(role models.UserRole) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	*s = State{role: role}
	return nil
}

func (s *State) Logout() {
	*s = State{}
}

func (s State) Role() (models.UserRole, bool) {
	return s.role, s.role != ""
}

func (s State) Authenticated() bool {
	return s.role != ""
}

// Allows reports whether the state's role is one of roles. An empty list
// admits any authenticated role.
func (s State) Allows(roles ...models.UserRole) bool {
	if !s.Authenticated() {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == s.role {
			return true
		}
	}
	return false
}

func (s State) TokenID() string {
	return s.tokenID
}

func (s State) ExpiresAt() time.Time {
	return s.expiresAt
}
