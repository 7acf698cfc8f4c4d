package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"storerate/internal/apperr"
	"storerate/internal/metrics"
	"storerate/internal/models"
	"storerate/internal/repositories"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidResetToken  = "Invalid or expired reset token"
)

// AuthResult is returned by signup and login.
type AuthResult struct {
	User  models.UserView `json:"user"`
	Token string          `json:"token"`
}

// PasswordReset carries the plaintext reset token for out-of-band delivery.
type PasswordReset struct {
	Token     string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// SignupInput is the data needed to register a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	users    repositories.UserRepository
	stores   repositories.StoreRepository
	hasher   PasswordHasher
	tokens   *TokenManager
	resetTTL time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, stores repositories.StoreRepository, hasher PasswordHasher, tokens *TokenManager, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		stores:   stores,
		hasher:   hasher,
		tokens:   tokens,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// Signup registers a user with role "user" and returns a session token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Duplicate("User with this email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Address:  in.Address,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicateOr(err, "User with this email already exists")
	}
	metrics.RecordAuthEvent("signup")
	return s.issue(ctx, user)
}

// Login checks credentials and returns a session token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.RecordAuthEvent("login_failed")
			return nil, apperr.Unauthenticated(msgInvalidCredentials)
		}
		return nil, apperr.Internal(err)
	}
	if !s.hasher.Compare(user.Password, password) {
		metrics.RecordAuthEvent("login_failed")
		return nil, apperr.Unauthenticated(msgInvalidCredentials)
	}
	metrics.RecordAuthEvent("login")
	return s.issue(ctx, user)
}

// ChangePassword replaces the password of userID after verifying current.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	if !s.hasher.Compare(user.Password, current) {
		return apperr.Unauthenticated("Current password is incorrect")
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	user.Password = hashed
	if err := s.users.Update(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ForgotPassword starts the reset flow for email. It returns nil, nil when
// no account matches so callers can answer uniformly.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*PasswordReset, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}

	token, err := newResetToken()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	hashed := HashResetToken(token)
	expiry := s.now().Add(s.resetTTL)
	user.ResetToken = &hashed
	user.ResetTokenExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.RecordAuthEvent("password_reset_requested")
	return &PasswordReset{Token: token, Email: user.Email, Name: user.Name, ExpiresAt: expiry}, nil
}

// VerifyResetToken reports whether token matches an unexpired reset request.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	_, err := s.userByResetToken(ctx, token)
	return err
}

// ResetPassword sets a new password using a reset token. The token is
// cleared in the same conditional write, so of two concurrent resets with
// one token only the first succeeds.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userByResetToken(ctx, token)
	if err != nil {
		return err
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.ConsumeResetToken(ctx, user.ID, HashResetToken(token), hashed, s.now()); err != nil {
		return notFoundOr(err, msgInvalidResetToken)
	}
	metrics.RecordAuthEvent("password_reset")
	return nil
}

// Authenticate resolves a session token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "Invalid or expired token", err)
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Unauthenticated("User not found")
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *AuthService) userByResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.NotFound(msgInvalidResetToken)
	}
	user, err := s.users.GetByResetToken(ctx, HashResetToken(token), s.now())
	if err != nil {
		return nil, notFoundOr(err, msgInvalidResetToken)
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	view := models.NewUserView(user)
	if user.Role == models.RoleStoreOwner {
		store, err := s.stores.GetByOwnerID(ctx, user.ID)
		switch {
		case err == nil:
			view.StoreID = &store.ID
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, apperr.Internal(err)
		}
	}
	return &AuthResult{User: view, Token: token}, nil
}

// HashResetToken returns the hex SHA-256 digest stored in place of a reset
// token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
