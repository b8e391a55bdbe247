package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// ParticipantService defines the interface for participant operations
type ParticipantService interface {
	// Join registers a display name on an open wheel, or adds one slot to an
	// existing entry when addSlot is set. Name uniqueness is case-insensitive
	// and enforced by the store's unique index, not by the pre-read.
	Join(ctx context.Context, wheelID primitive.ObjectID, displayName string, addSlot bool) (*models.Participant, error)

	// AddByHost lets the wheel owner register a participant directly.
	AddByHost(ctx context.Context, wheelID, hostID primitive.ObjectID, displayName string) (*models.Participant, error)

	// Remove deletes a participant. Host only.
	Remove(ctx context.Context, wheelID, participantID, hostID primitive.ObjectID) error
}

// Compile-time check to ensure ParticipantServiceImpl implements ParticipantService
var _ ParticipantService = (*ParticipantServiceImpl)(nil)

// ParticipantServiceImpl handles joins and host-side roster edits
type ParticipantServiceImpl struct {
	wheelRepo       repositories.WheelRepository
	participantRepo repositories.ParticipantRepository
	publisher       SpinPublisher
}

// NewParticipantService creates a new ParticipantServiceImpl
func NewParticipantService(
	wheelRepo repositories.WheelRepository,
	participantRepo repositories.ParticipantRepository,
	publisher SpinPublisher,
) *ParticipantServiceImpl {
	return &ParticipantServiceImpl{
		wheelRepo:       wheelRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
	}
}

// Join handles the public self-service join flow
func (s *ParticipantServiceImpl) Join(ctx context.Context, wheelID primitive.ObjectID, displayName string, addSlot bool) (*models.Participant, error) {
	wheel, err := s.loadWheel(ctx, wheelID)
	if err != nil {
		return nil, err
	}

	switch wheel.Status {
	case models.WheelStatusOpen:
	case models.WheelStatusClosed:
		return nil, ErrWheelClosed
	default:
		// Spinning or completed wheels accept no new entries either.
		return nil, ErrWheelClosed
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, fmt.Errorf("display name is required")
	}
	nameLower := strings.ToLower(name)

	if addSlot {
		existing, err := s.participantRepo.FindByName(ctx, wheelID, nameLower)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if existing != nil {
			ok, err := s.participantRepo.IncrementSlots(ctx, existing.ID, wheel.MaxSlotsPerUser)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
			if !ok {
				return nil, ErrWheelFull
			}
			existing.SlotsUsed++
			s.publisher.PublishWheelUpdated(wheelID.Hex())
			return existing, nil
		}
		// No existing entry under that name; fall through to a fresh join.
	}

	if wheel.MaxParticipants > 0 {
		count, err := s.participantRepo.CountByWheelID(ctx, wheelID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if count >= int64(wheel.MaxParticipants) {
			return nil, ErrWheelFull
		}
	}

	participant := &models.Participant{
		WheelID:     wheelID,
		DisplayName: name,
		NameLower:   nameLower,
		SlotsUsed:   1,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateName
		}
		slog.Error("Join: insert failed", "error", err, "wheelId", wheelID)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.publisher.PublishWheelUpdated(wheelID.Hex())
	slog.Info("Participant joined", "wheelId", wheelID, "name", name)
	return participant, nil
}

// AddByHost registers a participant on behalf of the wheel owner
func (s *ParticipantServiceImpl) AddByHost(ctx context.Context, wheelID, hostID primitive.ObjectID, displayName string) (*models.Participant, error) {
	wheel, err := s.loadWheel(ctx, wheelID)
	if err != nil {
		return nil, err
	}
	if wheel.AdminID != hostID {
		return nil, ErrForbidden
	}
	// The host may add names even on a closed wheel; only the public join path
	// is blocked by closing.
	if wheel.Status != models.WheelStatusOpen && wheel.Status != models.WheelStatusClosed {
		return nil, ErrInvalidState
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, fmt.Errorf("display name is required")
	}
	participant := &models.Participant{
		WheelID:     wheelID,
		DisplayName: name,
		NameLower:   strings.ToLower(name),
		SlotsUsed:   1,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.publisher.PublishWheelUpdated(wheelID.Hex())
	return participant, nil
}

// Remove deletes a participant from the wheel's roster
func (s *ParticipantServiceImpl) Remove(ctx context.Context, wheelID, participantID, hostID primitive.ObjectID) error {
	wheel, err := s.loadWheel(ctx, wheelID)
	if err != nil {
		return err
	}
	if wheel.AdminID != hostID {
		return ErrForbidden
	}

	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if participant.WheelID != wheelID {
		return ErrNotFound
	}

	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.publisher.PublishWheelUpdated(wheelID.Hex())
	slog.Info("Participant removed", "wheelId", wheelID, "participantId", participantID)
	return nil
}

func (s *ParticipantServiceImpl) loadWheel(ctx context.Context, wheelID primitive.ObjectID) (*models.Wheel, error) {
	wheel, err := s.wheelRepo.FindByID(ctx, wheelID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return wheel, nil
}
