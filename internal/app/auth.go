package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"staybook/internal/auth"
	"staybook/internal/domain"
	"staybook/internal/validation"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthService struct {
	users    domain.UserStore
	sessions *auth.Sessions
}

func NewAuthService(u domain.UserStore, s *auth.Sessions) *AuthService {
	return &AuthService{users: u, sessions: s}
}

// dummyHash keeps the unknown-user path as slow as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := auth.HashPassword("staybook-no-such-user")
	return h
})

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, in Credentials) (domain.Session, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return domain.Session{}, "", err
	}
	u, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		auth.CheckPassword(dummyHash(), in.Password)
		return domain.Session{}, "", ErrInvalidCredentials
	case err != nil:
		return domain.Session{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		log.Info().Str("user", u.ID).Msg("login rejected")
		return domain.Session{}, "", ErrInvalidCredentials
	}

	sess := domain.Session{UserID: u.ID, Role: u.Role}
	tok, err := s.sessions.Issue(sess)
	if err != nil {
		return domain.Session{}, "", err
	}
	return sess, tok, nil
}

func (s *AuthService) Authenticate(token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return s.sessions.Parse(token)
}
