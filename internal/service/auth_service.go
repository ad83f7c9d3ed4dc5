package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
	"github.com/yashvavaliya/DBC-new-section/internal/repository"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
)

// ErrInvalidCredentials covers unknown email, wrong password and inactive
// accounts alike, so responses do not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates panel accounts and issues JWTs.
type AuthService struct {
	adminRepo *repository.AdminUserRepository
}

// NewAuthService constructs an AuthService.
func NewAuthService(adminRepo *repository.AdminUserRepository) *AuthService {
	return &AuthService{adminRepo: adminRepo}
}

// Login verifies credentials and returns a signed token on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Warn().Str("email", email).Msg("Login attempt for unknown email")
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Login attempt on inactive account")
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("failed to record last login")
	}
	log.Info().Int("user_id", user.ID).Msg("Login successful")
	return token, nil
}

// CreateAdmin registers a new panel account with a bcrypt-hashed password.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.adminRepo.Create(ctx, &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		IsActive:     true,
	})
}
