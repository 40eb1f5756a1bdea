package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	internalauth "kanban/internal/auth"
	"kanban/internal/models"
	"kanban/internal/store"
)

const sessionCookieName = "kanban_session"

var (
	defaultSessionTTL     = 24 * time.Hour
	errInvalidCredentials = errors.New("invalid credentials")
)

// sessionStore is the slice of the store the auth service needs.
type sessionStore interface {
	store.UserRepository
	store.SessionRepository
}

// AuthService issues and resolves session tokens. Only token hashes are stored.
type AuthService struct {
	store      sessionStore
	sessionTTL time.Duration
}

type authLoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService constructs an AuthService. A non-positive ttl uses 24h.
func NewAuthService(st sessionStore, ttl time.Duration) *AuthService {
	if st == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{store: st, sessionTTL: ttl}
}

// Login verifies credentials and creates a session. The returned user carries
// no password hash.
func (a *AuthService) Login(ctx context.Context, username, password string, now time.Time) (*authLoginResult, error) {
	if a == nil || a.store == nil {
		return nil, fmt.Errorf("auth store is required")
	}

	normalized, err := internalauth.NormalizeUsername(username)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidArgument)
	}
	if strings.TrimSpace(password) == "" {
		return nil, badRequestCode(fmt.Errorf("password is required"), ErrCodeMissingRequired)
	}

	user, err := a.store.GetUserByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil || !internalauth.VerifyPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(a.sessionTTL)
	if err := a.store.CreateSession(ctx, user.ID, hashSessionToken(token), expiresAt, now); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &authLoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// AuthenticateSessionToken resolves a token to its user, or nil when the
// token is unknown, expired or revoked.
func (a *AuthService) AuthenticateSessionToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if a == nil || a.store == nil {
		return nil, nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	user, err := a.store.GetUserBySessionTokenHash(ctx, hashSessionToken(token), now)
	if err != nil || user == nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (a *AuthService) RevokeSessionToken(ctx context.Context, token string, now time.Time) error {
	if a == nil || a.store == nil {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return a.store.RevokeSessionByTokenHash(ctx, hashSessionToken(token), now)
}

// PruneSessions deletes expired and revoked sessions.
func (a *AuthService) PruneSessions(ctx context.Context, now time.Time) (int64, error) {
	if a == nil || a.store == nil {
		return 0, nil
	}
	return a.store.DeleteExpiredSessions(ctx, now)
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
