package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"syncportal/internal/gateway"
	"syncportal/internal/identity"
	"syncportal/internal/models"
	"syncportal/internal/security"
	"syncportal/internal/session"
)

var (
	ErrInvalidIdentifier  = errors.New("invalid national identifier")
	ErrIdentityRequired   = errors.New("identity check required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type IdentityValidator interface {
	ValidateID(ctx context.Context, nationalID string) gateway.Result[models.IdentityCheck]
}

type Recorder interface {
	Append(ctx context.Context, kind models.PendingKind, detail string) (models.PendingItem, error)
}

type demoAccount struct {
	username string
	password string
	role     models.UserRole
}

var demoAccounts = []demoAccount{
	{username: "student", password: "1234", role: models.UserRoleStudent},
	{username: "hr", password: "1234", role: models.UserRoleHR},
}

type AuthService struct {
	validator   IdentityValidator
	queue       Recorder
	sessions    *session.Manager
	credentials map[string]models.Credential
	log         zerolog.Logger
}

func NewAuthService(
	validator IdentityValidator,
	queue Recorder,
	sessions *session.Manager,
	log zerolog.Logger,
) (*AuthService, error) {
	creds := make(map[string]models.Credential, len(demoAccounts))
	for _, acct := range demoAccounts {
		hash, err := security.HashPasswordWithParams(acct.password, security.LightParams)
		if err != nil {
			return nil, fmt.Errorf("hash demo account %s: %w", acct.username, err)
		}
		creds[acct.username] = models.Credential{
			Username:     acct.username,
			PasswordHash: hash,
			Role:         acct.role,
		}
	}

	return &AuthService{
		validator:   validator,
		queue:       queue,
		sessions:    sessions,
		credentials: creds,
		log:         log,
	}, nil
}

type IdentityResult struct {
	Ticket  string
	Message string
	Source  gateway.Source
	// WellFormed reports whether the identifier also has the national
	// identifier length. Acceptance depends on the checksum alone.
	WellFormed bool
}

// CheckIdentifier is the first login step. A rejected identifier is queued
// for review; an accepted one yields the ticket Login requires. The
// identifier is checked exactly as submitted.
func (s *AuthService) CheckIdentifier(ctx context.Context, nationalID string) (IdentityResult, error) {
	check := s.validator.ValidateID(ctx, nationalID)
	result := IdentityResult{
		Message:    check.Value.Message,
		Source:     check.Source,
		WellFormed: identity.IsNationalID(nationalID),
	}

	if !check.Value.IsValid {
		if _, err := s.queue.Append(ctx, models.PendingKindInvalidIdentifier, "Failed Luhn check for ID: "+nationalID); err != nil {
			return result, fmt.Errorf("record invalid identifier: %w", err)
		}
		s.log.Info().Bool("live", check.Live()).Msg("identifier rejected")
		return result, ErrInvalidIdentifier
	}
	if !result.WellFormed {
		s.log.Debug().Int("length", len(nationalID)).Msg("identifier accepted with unusual length")
	}

	ticket, err := s.sessions.IssueTicket(nationalID)
	if err != nil {
		return result, err
	}
	result.Ticket = ticket
	return result, nil
}

type LoginResult struct {
	Token string
	State session.State
}

func (s *AuthService) Login(ctx context.Context, ticket string, username string, password string) (LoginResult, error) {
	if _, err := s.sessions.ParseTicket(ticket); err != nil {
		return LoginResult{}, ErrIdentityRequired
	}

	cred, ok := s.credentials[username]
	if ok {
		match, err := security.VerifyPassword(password, cred.PasswordHash)
		if err != nil {
			return LoginResult{}, err
		}
		ok = match
	}

	if !ok {
		if _, err := s.queue.Append(ctx, models.PendingKindLoginFailure, "Failed login attempt for user: "+username); err != nil {
			return LoginResult{}, fmt.Errorf("record login failure: %w", err)
		}
		s.log.Info().Str("username", username).Msg("login failed")
		return LoginResult{}, ErrInvalidCredentials
	}

	var st session.State
	if err := st.Login(cred.Role); err != nil {
		return LoginResult{}, err
	}
	token, issued, err := s.sessions.Issue(st)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Str("role", string(cred.Role)).Str("session", issued.TokenID()).Msg("login succeeded")
	return LoginResult{Token: token, State: issued}, nil
}

// Logout revokes the session token behind st.
func (s *AuthService) Logout(ctx context.Context, st session.State) error {
	if !st.Authenticated() {
		return nil
	}
	return s.sessions.Revoke(ctx, st)
}
