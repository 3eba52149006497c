package service

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/KanalKids/kanalkids_api/internal/models"
	"github.com/KanalKids/kanalkids_api/internal/repository"
	"github.com/KanalKids/kanalkids_api/internal/utils"
)

const adminTokenTTL = 12 * time.Hour

// AdminAuthService authenticates backoffice operators.
type AdminAuthService struct {
	adminRepo *repository.AdminUserRepository
	jwtSecret string
}

// NewAdminAuthService creates a new AdminAuthService.
func NewAdminAuthService(adminRepo *repository.AdminUserRepository, jwtSecret string) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo, jwtSecret: jwtSecret}
}

// Login verifies admin credentials and returns an admin-scoped token.
func (s *AdminAuthService) Login(email, password string) (string, error) {
	user, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", utils.ErrInvalidCredentials
		}
		return "", err
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("inactive admin login attempt")
		return "", utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	log.Info().Str("email", email).Msg("admin logged in")
	return utils.GenerateJWT(strconv.Itoa(user.ID), user.Email, utils.ScopeAdmin, s.jwtSecret, adminTokenTTL)
}

// CreateAdmin creates a backoffice account. Used by seeding, not exposed
// over HTTP.
func (s *AdminAuthService) CreateAdmin(email, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.adminRepo.Create(&models.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
	})
}
