package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/winsim/wheel-backend/internal/config"
	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/repositories"
	"github.com/winsim/wheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// AuthService defines the interface for host authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Host, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // returns JWT token
}

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles registration and login of wheel hosts
type AuthServiceImpl struct {
	hostRepo repositories.HostRepository
	cfg      *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(hostRepo repositories.HostRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		hostRepo: hostRepo,
		cfg:      cfg,
	}
}

// Register creates a new host account
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Host, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	host := &models.Host{
		Email:       req.Email,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
	}
	if err := s.hostRepo.Create(ctx, host); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.New("an account with this email already exists")
		}
		slog.Error("Register: insert failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	host.Password = ""
	slog.Info("Host registered", "hostId", host.ID, "email", host.Email)
	return host, nil
}

// Login verifies credentials and returns a signed JWT
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	host, err := s.hostRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same error for missing account and bad password.
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(host.Password), []byte(req.Password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(host.ID.Hex(), host.Email, s.cfg)
	if err != nil {
		slog.Error("Login: failed to sign token", "error", err, "hostId", host.ID)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
