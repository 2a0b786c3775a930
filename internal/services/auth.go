package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/todoapp/internal/jwt"
	"github.com/sbilibin2017/todoapp/internal/logger"
	"github.com/sbilibin2017/todoapp/internal/models"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrUserDoesNotExist   = errors.New("username does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, passwordHash string) (uuid.UUID, error)
}

// SessionTokener issues session tokens and extracts their claims.
type SessionTokener interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// SessionRevoker tracks revoked session tokens.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID uuid.UUID, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)
}

// AuthService handles signup, login, logout and session resolution.
type AuthService struct {
	reader   UserReader
	writer   UserWriter
	jwt      SessionTokener
	sessions SessionRevoker
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt SessionTokener, sessions SessionRevoker) *AuthService {
	return &AuthService{
		reader:   reader,
		writer:   writer,
		jwt:      jwt,
		sessions: sessions,
	}
}

// Register creates a new user with a bcrypt-hashed password and returns its id.
func (svc *AuthService) Register(ctx context.Context, username, password string) (uuid.UUID, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return uuid.Nil, err
	}
	if user != nil {
		logger.Log.Infow("user already exists", "username", username)
		return uuid.Nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return uuid.Nil, err
	}

	userID, err := svc.writer.Save(ctx, username, string(hashedPassword))
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return uuid.Nil, err
	}

	return userID, nil
}

// Login authenticates a user and returns a session token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("user does not exist", "username", username)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "err", err)
		return "", err
	}

	return token, nil
}

// Logout revokes the session token. Invalid or already-expired tokens are
// ignored, so repeated logout is harmless.
func (svc *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := svc.jwt.GetClaims(ctx, token)
	if err != nil {
		return nil
	}

	return svc.sessions.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt))
}

// CurrentUser resolves a session token to the authenticated user.
// Invalid, expired or revoked tokens fail with ErrUnauthenticated.
func (svc *AuthService) CurrentUser(ctx context.Context, token string) (*models.UserDB, error) {
	claims, err := svc.jwt.GetClaims(ctx, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	revoked, err := svc.sessions.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		logger.Log.Errorw("failed to check session revocation", "err", err)
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	user, err := svc.reader.GetByID(ctx, claims.UserID)
	if err != nil {
		logger.Log.Errorw("failed to load session user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}
