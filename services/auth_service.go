package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// LoginResult is what a successful admin login yields.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *models.Admin
}

// AuthService handles admin login and account settings.
type AuthService struct {
	repo   repository.AdminRepository
	tokens *TokenService
	logger *zap.Logger
}

func NewAuthService(repo repository.AdminRepository, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

// Login checks the email/password pair and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, *ServiceError) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("Failed to load admin", zap.Error(err))
			return nil, unavailableError("Login is temporarily unavailable")
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, authError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		s.logger.Info("Admin login rejected", zap.String("email", admin.Email))
		return nil, authError()
	}

	token, expiresAt, err := s.tokens.Issue(admin.Role, admin.Email, admin.Name)
	if err != nil {
		s.logger.Error("Failed to issue session token", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to sign in"}
	}

	s.logger.Info("Admin logged in", zap.String("email", admin.Email))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// GetProfile returns the stored admin record for a verified session email.
func (s *AuthService) GetProfile(ctx context.Context, email string) (*models.Admin, *ServiceError) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Admin not found")
		}
		s.logger.Error("Failed to load admin", zap.Error(err))
		return nil, unavailableError("Failed to load profile")
	}
	return admin, nil
}

// UpdateProfile changes name, address and phone.
func (s *AuthService) UpdateProfile(ctx context.Context, email string, req *models.ProfileRequest) (*models.Admin, *ServiceError) {
	admin, svcErr := s.GetProfile(ctx, email)
	if svcErr != nil {
		return nil, svcErr
	}

	admin.Name = strings.TrimSpace(req.Name)
	admin.Address = strings.TrimSpace(req.Address)
	admin.Phone = strings.TrimSpace(req.Phone)

	if err := s.repo.Update(ctx, admin); err != nil {
		s.logger.Error("Failed to update admin profile", zap.Error(err))
		return nil, unavailableError("Failed to update profile")
	}
	s.logger.Info("Admin profile updated", zap.String("email", admin.Email))
	return admin, nil
}

// ChangePassword verifies the current password and stores a new bcrypt hash.
func (s *AuthService) ChangePassword(ctx context.Context, email string, req *models.ChangePasswordRequest) *ServiceError {
	if req.NewPassword != req.ConfirmPassword {
		return validationError("Passwords do not match")
	}

	admin, svcErr := s.GetProfile(ctx, email)
	if svcErr != nil {
		return svcErr
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)); err != nil {
		return &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Current password is incorrect", Err: ErrAuthInvalid}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to hash password"}
	}
	admin.Password = string(hashed)

	if err := s.repo.Update(ctx, admin); err != nil {
		s.logger.Error("Failed to update admin password", zap.Error(err))
		return unavailableError("Failed to update password")
	}
	s.logger.Info("Admin password changed", zap.String("email", admin.Email))
	return nil
}

// EnsureAdmin creates the bootstrap admin account if no account exists for email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if name == "" {
		name = "Admin"
	}
	admin := &models.Admin{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashed),
		Name:     name,
		Role:     "admin",
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("Bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
