package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/repository"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

const (
	userTokenTTL  = 7 * 24 * time.Hour
	resetTokenTTL = time.Hour
)

// UserStore persists buyer accounts.
type UserStore interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Create(user *models.User) error
	UpdatePassword(id, passwordHash string) error
}

// ResetStore persists password reset tokens.
type ResetStore interface {
	Create(reset *models.PasswordReset) error
	GetValid(token string, now time.Time) (*models.PasswordReset, error)
	MarkUsed(token string) error
}

// Mailer sends transactional mail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// AuthService owns buyer registration, login, and password management.
type AuthService struct {
	users     UserStore
	resets    ResetStore
	mailer    Mailer
	jwtSecret string
	baseURL   string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, resets ResetStore, mailer Mailer, jwtSecret, baseURL string) *AuthService {
	return &AuthService{
		users:     users,
		resets:    resets,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		baseURL:   baseURL,
	}
}

// Register creates a buyer account and returns a signed session token.
func (s *AuthService) Register(name, email, password string) (string, *models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return "", nil, utils.ErrEmailTaken
		}
		return "", nil, err
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, utils.ScopeUser, s.jwtSecret, userTokenTTL)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	return token, user, nil
}

// Login verifies credentials and returns a signed session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, utils.ScopeUser, s.jwtSecret, userTokenTTL)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// CurrentUser returns the account behind a session.
func (s *AuthService) CurrentUser(userID string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword issues a one-time reset token and mails the reset link.
// Unknown emails succeed silently so the endpoint cannot be used to probe
// which addresses have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	reset := &models.PasswordReset{
		Token:     utils.GenerateResetToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resets.Create(reset); err != nil {
		return err
	}

	resetURL := s.baseURL + "/change-password?token=" + url.QueryEscape(reset.Token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("password reset mail failed")
		return err
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	reset, err := s.resets.GetValid(token, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrResetTokenInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(reset.UserID, string(hash)); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(token); err != nil {
		return err
	}

	log.Info().Str("user_id", reset.UserID).Msg("password reset completed")
	return nil
}

// ChangePassword verifies the current password and replaces it.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return utils.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(userID, string(hash))
}
