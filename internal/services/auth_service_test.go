package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/winsim/wheel-backend/internal/config"
	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type memHostRepo struct {
	mu    sync.Mutex
	hosts map[string]*models.Host
}

func newMemHostRepo() *memHostRepo {
	return &memHostRepo{hosts: make(map[string]*models.Host)}
}

func (r *memHostRepo) Create(ctx context.Context, host *models.Host) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.hosts[host.Email]; exists {
		return mongo.CommandError{Code: 11000, Message: "duplicate key"}
	}
	host.ID = primitive.NewObjectID()
	stored := *host
	r.hosts[host.Email] = &stored
	return nil
}

func (r *memHostRepo) FindByEmail(ctx context.Context, email string) (*models.Host, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	host, ok := r.hosts[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copy := *host
	return &copy, nil
}

func (r *memHostRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Host, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, host := range r.hosts {
		if host.ID == id {
			copy := *host
			return &copy, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemHostRepo()
	cfg := testAuthConfig()
	svc := NewAuthService(repo, cfg)
	ctx := context.Background()

	host, err := svc.Register(ctx, &models.RegisterRequest{
		Email:       "host@example.com",
		Password:    "s3cret-password",
		DisplayName: "Host",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if host.Password != "" {
		t.Errorf("password hash leaked in register response")
	}

	token, err := svc.Login(ctx, &models.LoginRequest{Email: "host@example.com", Password: "s3cret-password"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := utils.ValidateJWT(token, cfg)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims["sub"] != host.ID.Hex() {
		t.Errorf("token sub %v, want %s", claims["sub"], host.ID.Hex())
	}
	if claims["email"] != "host@example.com" {
		t.Errorf("token email %v", claims["email"])
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemHostRepo()
	svc := NewAuthService(repo, testAuthConfig())
	ctx := context.Background()

	req := &models.RegisterRequest{Email: "host@example.com", Password: "pw-one-two", DisplayName: "Host"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("got %v, want duplicate email error", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newMemHostRepo()
	svc := NewAuthService(repo, testAuthConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &models.RegisterRequest{Email: "host@example.com", Password: "right-password", DisplayName: "Host"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown account must be indistinguishable.
	_, wrongPw := svc.Login(ctx, &models.LoginRequest{Email: "host@example.com", Password: "wrong-password"})
	_, unknown := svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if wrongPw == nil || unknown == nil {
		t.Fatal("expected both logins to fail")
	}
	if wrongPw.Error() != unknown.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPw, unknown)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	cfg := testAuthConfig()
	token, err := utils.GenerateJWT(primitive.NewObjectID().Hex(), "host@example.com", cfg)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	other := testAuthConfig()
	other.JWT.Secret = "different-secret"
	if _, err := utils.ValidateJWT(token, other); err == nil {
		t.Fatal("token validated under the wrong secret")
	}
}
