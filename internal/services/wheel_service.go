package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/repositories"
	"github.com/winsim/wheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// WheelUpdate carries the host-editable wheel configuration. Nil fields are
// left unchanged.
type WheelUpdate struct {
	Title            *string
	PrizeDescription *string
	Theme            *models.WheelTheme
	MaxSlotsPerUser  *int
	MaxParticipants  *int
	ShowConfetti     *bool
	SoundEnabled     *bool
	SpinAt           *time.Time
	ClearSpinAt      bool
	Status           *models.WheelStatus // only open <-> closed
}

// WheelView is a wheel together with its participant list, the shape public
// viewers render from.
type WheelView struct {
	Wheel        *models.Wheel         `json:"wheel"`
	Participants []*models.Participant `json:"participants"`
}

// WheelService defines the interface for wheel lifecycle operations
type WheelService interface {
	CreateWheel(ctx context.Context, adminID primitive.ObjectID, title string) (*models.Wheel, error)
	GetWheelByID(ctx context.Context, id primitive.ObjectID) (*models.Wheel, error)
	GetWheelView(ctx context.Context, id primitive.ObjectID) (*WheelView, error)
	GetWheelViewBySlug(ctx context.Context, slug string) (*WheelView, error)
	GetWheelsByAdmin(ctx context.Context, adminID primitive.ObjectID) ([]*models.Wheel, error)
	UpdateWheel(ctx context.Context, id, hostID primitive.ObjectID, update WheelUpdate) (*models.Wheel, error)
	DeleteWheel(ctx context.Context, id, hostID primitive.ObjectID) error
}

// Compile-time check to ensure WheelServiceImpl implements WheelService
var _ WheelService = (*WheelServiceImpl)(nil)

// WheelServiceImpl handles wheel CRUD and configuration
type WheelServiceImpl struct {
	wheelRepo       repositories.WheelRepository
	participantRepo repositories.ParticipantRepository
	publisher       SpinPublisher
}

// NewWheelService creates a new WheelServiceImpl
func NewWheelService(
	wheelRepo repositories.WheelRepository,
	participantRepo repositories.ParticipantRepository,
	publisher SpinPublisher,
) *WheelServiceImpl {
	return &WheelServiceImpl{
		wheelRepo:       wheelRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
	}
}

// CreateWheel creates a new open wheel with a fresh shareable slug
func (s *WheelServiceImpl) CreateWheel(ctx context.Context, adminID primitive.ObjectID, title string) (*models.Wheel, error) {
	if title == "" {
		title = "My Wheel"
	}
	wheel := &models.Wheel{
		AdminID:         adminID,
		Slug:            utils.NewSlug(),
		Title:           title,
		Theme:           models.ThemeDefault,
		MaxSlotsPerUser: 5,
		ShowConfetti:    true,
		SoundEnabled:    true,
		Status:          models.WheelStatusOpen,
	}
	if err := s.wheelRepo.Create(ctx, wheel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Slug collision. With 8 random hex chars this is rare enough that
			// one retry covers it.
			wheel.Slug = utils.NewSlug()
			if err := s.wheelRepo.Create(ctx, wheel); err != nil {
				return nil, fmt.Errorf("failed to create wheel: %w", err)
			}
			return wheel, nil
		}
		slog.Error("CreateWheel: insert failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	slog.Info("Wheel created", "wheelId", wheel.ID, "slug", wheel.Slug, "adminId", adminID)
	return wheel, nil
}

// GetWheelByID retrieves a wheel by ID
func (s *WheelServiceImpl) GetWheelByID(ctx context.Context, id primitive.ObjectID) (*models.Wheel, error) {
	wheel, err := s.wheelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return wheel, nil
}

// GetWheelView retrieves a wheel and its participants by ID
func (s *WheelServiceImpl) GetWheelView(ctx context.Context, id primitive.ObjectID) (*WheelView, error) {
	wheel, err := s.GetWheelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.viewOf(ctx, wheel)
}

// GetWheelViewBySlug retrieves a wheel and its participants by shareable slug
func (s *WheelServiceImpl) GetWheelViewBySlug(ctx context.Context, slug string) (*WheelView, error) {
	wheel, err := s.wheelRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.viewOf(ctx, wheel)
}

func (s *WheelServiceImpl) viewOf(ctx context.Context, wheel *models.Wheel) (*WheelView, error) {
	participants, err := s.participantRepo.FindByWheelID(ctx, wheel.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &WheelView{Wheel: wheel, Participants: participants}, nil
}

// GetWheelsByAdmin lists a host's wheels, newest first
func (s *WheelServiceImpl) GetWheelsByAdmin(ctx context.Context, adminID primitive.ObjectID) ([]*models.Wheel, error) {
	wheels, err := s.wheelRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return wheels, nil
}

// UpdateWheel applies host configuration changes to a wheel. The changed
// fields are written with a targeted update and the status transition with a
// compare-and-set, so a spin landing concurrently keeps its outcome: the
// config write cannot reach the winner fields or the history, and a stale
// status change fails its condition instead of reverting the wheel.
func (s *WheelServiceImpl) UpdateWheel(ctx context.Context, id, hostID primitive.ObjectID, update WheelUpdate) (*models.Wheel, error) {
	wheel, err := s.GetWheelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wheel.AdminID != hostID {
		return nil, ErrForbidden
	}

	if update.MaxSlotsPerUser != nil && *update.MaxSlotsPerUser < 1 {
		return nil, fmt.Errorf("max slots per user must be >= 1")
	}

	if update.Status != nil {
		if err := s.changeStatus(ctx, wheel, *update.Status); err != nil {
			return nil, err
		}
	}

	changes := repositories.ConfigChanges{
		Title:            update.Title,
		PrizeDescription: update.PrizeDescription,
		Theme:            update.Theme,
		MaxSlotsPerUser:  update.MaxSlotsPerUser,
		MaxParticipants:  update.MaxParticipants,
		ShowConfetti:     update.ShowConfetti,
		SoundEnabled:     update.SoundEnabled,
		SpinAt:           update.SpinAt,
		ClearSpinAt:      update.ClearSpinAt,
	}
	if !changes.IsEmpty() {
		if err := s.wheelRepo.UpdateConfig(ctx, id, changes); err != nil {
			slog.Error("UpdateWheel: update failed", "error", err, "wheelId", id)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	wheel, err = s.GetWheelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishWheelUpdated(id.Hex())
	return wheel, nil
}

// changeStatus permits only the open <-> closed transitions through the config
// update path, executed as a compare-and-set against the status the host saw.
// Completed is reached by spinning, open-after-completed by the explicit
// reset operation.
func (s *WheelServiceImpl) changeStatus(ctx context.Context, wheel *models.Wheel, to models.WheelStatus) error {
	if wheel.Status == to {
		return nil
	}
	valid := (wheel.Status == models.WheelStatusOpen && to == models.WheelStatusClosed) ||
		(wheel.Status == models.WheelStatusClosed && to == models.WheelStatusOpen)
	if !valid {
		return ErrInvalidState
	}

	ok, err := s.wheelRepo.SetStatus(ctx, wheel.ID, wheel.Status, to)
	if err != nil {
		slog.Error("UpdateWheel: status change failed", "error", err, "wheelId", wheel.ID)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		// The wheel left the observed status between read and write, for
		// example because a spin completed it.
		return ErrInvalidState
	}
	return nil
}

// DeleteWheel removes a wheel and cascades to its participants
func (s *WheelServiceImpl) DeleteWheel(ctx context.Context, id, hostID primitive.ObjectID) error {
	wheel, err := s.GetWheelByID(ctx, id)
	if err != nil {
		return err
	}
	if wheel.AdminID != hostID {
		return ErrForbidden
	}

	if err := s.participantRepo.DeleteByWheelID(ctx, id); err != nil {
		slog.Error("DeleteWheel: cascade delete failed", "error", err, "wheelId", id)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.wheelRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	slog.Info("Wheel deleted", "wheelId", id, "adminId", hostID)
	return nil
}
