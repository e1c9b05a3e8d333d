package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/model"
	"github.com/iliyamo/tattler/internal/repository"
	"github.com/iliyamo/tattler/internal/utils"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// AuthService verifies credentials at login and authenticates bearer
// tokens on protected requests.
type AuthService struct {
	users  UserStore
	tokens TokenSigner
}

func NewAuthService(users UserStore, tokens TokenSigner) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// VerifyCredentials returns the user owning email when password matches
// the stored hash. An unknown email yields NotFound and a wrong password
// InvalidCredential. Nothing is written.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, repository.NormalizeEmail(email))
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.InvalidCredential("invalid password")
	}
	return u, nil
}

// Login verifies the credentials and issues a session token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to issue token")
	}
	return &LoginResult{User: u, Token: tok.Token, ExpiresAt: tok.Exp}, nil
}

// Authenticate resolves an Authorization header value of the form
// "Bearer <token>" to the user the token was issued for. Missing or
// malformed headers, invalid or expired tokens and tokens of deleted users
// all yield Unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, header string) (*model.User, error) {
	raw, err := bearerToken(header)
	if err != nil {
		return nil, err
	}
	id, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthenticated, err, "invalid or expired token")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthenticated("user no longer exists")
		}
		return nil, err
	}
	return u, nil
}

var errNoBearer = errors.New("missing bearer token")

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", apperr.Wrap(apperr.CodeUnauthenticated, errNoBearer, "missing Authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", apperr.Wrap(apperr.CodeUnauthenticated, errNoBearer, "invalid Authorization header format")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.Wrap(apperr.CodeUnauthenticated, errNoBearer, "invalid Authorization header format")
	}
	return token, nil
}
