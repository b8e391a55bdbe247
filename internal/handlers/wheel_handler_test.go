package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubWheelService records CreateWheel calls and serves canned responses.
type stubWheelService struct {
	createdTitle string
}

func (s *stubWheelService) CreateWheel(ctx context.Context, adminID primitive.ObjectID, title string) (*models.Wheel, error) {
	s.createdTitle = title
	if title == "" {
		title = "My Wheel"
	}
	return &models.Wheel{
		ID:      primitive.NewObjectID(),
		AdminID: adminID,
		Slug:    "abcd1234",
		Title:   title,
		Status:  models.WheelStatusOpen,
	}, nil
}

func (s *stubWheelService) GetWheelByID(ctx context.Context, id primitive.ObjectID) (*models.Wheel, error) {
	return nil, services.ErrNotFound
}

func (s *stubWheelService) GetWheelView(ctx context.Context, id primitive.ObjectID) (*services.WheelView, error) {
	return nil, services.ErrNotFound
}

func (s *stubWheelService) GetWheelViewBySlug(ctx context.Context, slug string) (*services.WheelView, error) {
	return nil, services.ErrNotFound
}

func (s *stubWheelService) GetWheelsByAdmin(ctx context.Context, adminID primitive.ObjectID) ([]*models.Wheel, error) {
	return nil, nil
}

func (s *stubWheelService) UpdateWheel(ctx context.Context, id, hostID primitive.ObjectID, update services.WheelUpdate) (*models.Wheel, error) {
	return nil, services.ErrNotFound
}

func (s *stubWheelService) DeleteWheel(ctx context.Context, id, hostID primitive.ObjectID) error {
	return services.ErrNotFound
}

func newCreateWheelRouter(svc *stubWheelService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWheelHandler(svc, nil)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("hostID", primitive.NewObjectID())
	})
	router.POST("/wheels", handler.CreateWheel)
	return router
}

func TestCreateWheel_EmptyBody(t *testing.T) {
	svc := &stubWheelService{}
	router := newCreateWheelRouter(svc)

	// No body at all; the handler must treat this as "all defaults".
	req := httptest.NewRequest(http.MethodPost, "/wheels", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201: %s", w.Code, w.Body.String())
	}
	var wheel models.Wheel
	if err := json.Unmarshal(w.Body.Bytes(), &wheel); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if wheel.Title != "My Wheel" {
		t.Errorf("title %q, want default", wheel.Title)
	}
}

func TestCreateWheel_WithTitle(t *testing.T) {
	svc := &stubWheelService{}
	router := newCreateWheelRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/wheels", strings.NewReader(`{"title":"Friday Raffle"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201: %s", w.Code, w.Body.String())
	}
	if svc.createdTitle != "Friday Raffle" {
		t.Errorf("service received title %q", svc.createdTitle)
	}
}

func TestCreateWheel_MalformedBody(t *testing.T) {
	svc := &stubWheelService{}
	router := newCreateWheelRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/wheels", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", w.Code, w.Body.String())
	}
}
