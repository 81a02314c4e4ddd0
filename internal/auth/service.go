// Package auth implements account registration, login and session-backed
// access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/session"
	"github.com/jonathan/trade-connect/internal/textutil"
	"github.com/jonathan/trade-connect/internal/types"
)

const sessionPrefix = "session:"

// UserStore is the storage the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *db.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// Result is the outcome of a successful login or registration.
type Result struct {
	User      *types.User
	Token     string
	ExpiresAt time.Time
}

// Service provides business logic for authentication.
type Service struct {
	users     UserStore
	passwords *config.PasswordConfig
	tokens    *TokenService
	sessions  session.Store
	logger    *zap.Logger
}

// NewService wires the authentication service.
func NewService(users UserStore, passwords *config.PasswordConfig, tokens *TokenService, sessions session.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		sessions:  sessions,
		logger:    logger,
	}
}

// PublicUser converts a stored user into its API view.
func PublicUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	name := u.PICName
	if name == "" {
		name = u.Company
	}
	return &types.User{
		ID:        u.ID,
		Role:      string(u.Role),
		Email:     u.Email,
		Company:   u.Company,
		PICName:   u.PICName,
		Phone:     u.Phone,
		Province:  u.Province,
		Initials:  textutil.Initials(name),
		CreatedAt: u.CreatedAt,
	}
}

// Login authenticates a user and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller.
	if user == nil || !s.passwords.VerifyPassword(password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return s.openSession(ctx, user)
}

// Register creates an account and opens a session for it.
func (s *Service) Register(ctx context.Context, req *types.RegisterRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		Role:         db.Role(req.AccountType),
		Email:        req.Email,
		PasswordHash: hash,
		Company:      strings.TrimSpace(req.Company),
		PICName:      strings.TrimSpace(req.PICName),
		Phone:        strings.TrimSpace(req.Phone),
		Province:     req.Province,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &ErrEmailAlreadyExists{Email: req.Email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return s.openSession(ctx, user)
}

func (s *Service) openSession(ctx context.Context, user *db.User) (*Result, error) {
	token, claims, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	expiresAt := claims.ExpiresAt.Time
	if err := s.sessions.Set(ctx, sessionPrefix+claims.ID, user.ID.String(), time.Until(expiresAt)); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &Result{User: PublicUser(user), Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate verifies a token and checks that its session is still open.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	owner, ok, err := s.sessions.Get(ctx, sessionPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || owner != claims.UserID.String() {
		return nil, &ErrSessionExpired{}
	}
	return claims, nil
}

// Logout closes the session behind token. Closing an already closed
// session is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return err
	}
	if err := s.sessions.Clear(ctx, sessionPrefix+claims.ID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID.String()))
	return nil
}

// Current returns the user behind a token.
func (s *Service) Current(ctx context.Context, token string) (*types.User, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.User(ctx, claims.UserID)
}

// User returns the public view of a user by ID.
func (s *Service) User(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return PublicUser(u), nil
}
