package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/repositories"
	"github.com/winsim/wheel-backend/internal/wheelmath"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// TriggerContext describes which entry point is attempting a spin and, for
// host triggers, who the caller is.
type TriggerContext struct {
	Source models.TriggerSource
	HostID primitive.ObjectID
}

// SpinPublisher is the per-wheel fan-out channel the orchestrator notifies.
// The realtime hub implements it; tests plug in a recorder.
type SpinPublisher interface {
	PublishSpinStarted(wheelID string, outcome models.SpinOutcome)
	PublishWheelUpdated(wheelID string)
}

// SpinService defines the interface for spin orchestration
type SpinService interface {
	// AttemptSpin re-validates wheel state against the store, runs the draw
	// exactly once, persists the outcome atomically and notifies subscribers.
	AttemptSpin(ctx context.Context, wheelID primitive.ObjectID, trigger TriggerContext) (*models.SpinOutcome, error)

	// Sweep attempts a spin on every due wheel, collecting per-wheel results.
	// A single wheel's failure never aborts the sweep.
	Sweep(ctx context.Context, now time.Time) ([]models.SweepEntry, error)

	// Reset reopens a completed or closed wheel for a new round. Host only.
	Reset(ctx context.Context, wheelID, hostID primitive.ObjectID) error
}

// Compile-time check to ensure SpinServiceImpl implements SpinService
var _ SpinService = (*SpinServiceImpl)(nil)

// SpinServiceImpl gates whether a spin may proceed and executes it. Correctness
// under racing triggers comes entirely from the store's conditional write, not
// from in-process locking: all three entry points may observe an open wheel
// simultaneously, but only one CompleteSpin update can match the document.
type SpinServiceImpl struct {
	wheelRepo       repositories.WheelRepository
	participantRepo repositories.ParticipantRepository
	publisher       SpinPublisher
	tolerance       time.Duration
}

// NewSpinService creates a new SpinServiceImpl. tolerance is the clock-skew
// slack applied when checking a scheduled spin time.
func NewSpinService(
	wheelRepo repositories.WheelRepository,
	participantRepo repositories.ParticipantRepository,
	publisher SpinPublisher,
	tolerance time.Duration,
) *SpinServiceImpl {
	return &SpinServiceImpl{
		wheelRepo:       wheelRepo,
		participantRepo: participantRepo,
		publisher:       publisher,
		tolerance:       tolerance,
	}
}

// AttemptSpin runs the full precondition check and draw for one wheel
func (s *SpinServiceImpl) AttemptSpin(ctx context.Context, wheelID primitive.ObjectID, trigger TriggerContext) (*models.SpinOutcome, error) {
	wheel, err := s.wheelRepo.FindByID(ctx, wheelID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		slog.Error("AttemptSpin: failed to load wheel", "error", err, "wheelId", wheelID)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if trigger.Source == models.TriggerHost && wheel.AdminID != trigger.HostID {
		return nil, ErrForbidden
	}

	if wheel.Status != models.WheelStatusOpen {
		return nil, ErrInvalidState
	}

	// Schedule-driven triggers carry no identity; the schedule itself is the
	// authorization, re-checked server-side with the skew tolerance.
	if trigger.Source == models.TriggerAuto || trigger.Source == models.TriggerCron {
		if wheel.SpinAt == nil {
			return nil, ErrNotDue
		}
		if wheel.SpinAt.After(time.Now().Add(s.tolerance)) {
			return nil, ErrNotDue
		}
	}

	participants, err := s.participantRepo.FindByWheelID(ctx, wheelID)
	if err != nil {
		slog.Error("AttemptSpin: failed to load participants", "error", err, "wheelId", wheelID)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	slots := wheelmath.ExpandSlots(participants)
	if len(slots) < 2 {
		return nil, ErrInsufficientParticipants
	}

	winnerIndex, err := wheelmath.PickWinner(len(slots))
	if err != nil {
		return nil, fmt.Errorf("failed to draw winner: %w", err)
	}
	winner := slots[winnerIndex]
	spin := wheelmath.ComputeSpin(winnerIndex, len(slots))

	result := models.SpinResult{
		WinnerName: winner.Name,
		WinnerID:   winner.ParticipantID,
		SpunAt:     time.Now(),
		FinalAngle: spin.FinalAngle,
	}

	ok, err := s.wheelRepo.CompleteSpin(ctx, wheelID, repositories.SpinFields{
		WinnerName:          winner.Name,
		WinnerParticipantID: winner.ParticipantID,
		FinalAngle:          spin.FinalAngle,
		Duration:            spin.Duration,
		Result:              result,
	})
	if err != nil {
		slog.Error("AttemptSpin: conditional write failed", "error", err, "wheelId", wheelID)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		// A concurrent trigger completed the spin between our read and write.
		slog.Info("AttemptSpin: lost spin race", "wheelId", wheelID, "trigger", trigger.Source)
		return nil, ErrInvalidState
	}

	outcome := &models.SpinOutcome{
		FinalAngle: spin.FinalAngle,
		Duration:   spin.Duration,
		WinnerName: winner.Name,
		WinnerID:   winner.ParticipantID,
	}

	// Broadcast for subscribers whose row-update replication may be unreliable.
	s.publisher.PublishSpinStarted(wheelID.Hex(), *outcome)
	s.publisher.PublishWheelUpdated(wheelID.Hex())

	slog.Info("Spin completed", "wheelId", wheelID, "winner", winner.Name, "slots", len(slots), "trigger", trigger.Source)
	return outcome, nil
}

// Sweep attempts spins on all due wheels independently
func (s *SpinServiceImpl) Sweep(ctx context.Context, now time.Time) ([]models.SweepEntry, error) {
	due, err := s.wheelRepo.FindDue(ctx, now)
	if err != nil {
		slog.Error("Sweep: failed to query due wheels", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	entries := make([]models.SweepEntry, 0, len(due))
	for _, wheel := range due {
		outcome, err := s.AttemptSpin(ctx, wheel.ID, TriggerContext{Source: models.TriggerCron})
		switch {
		case err == nil:
			entries = append(entries, models.SweepEntry{
				WheelID: wheel.ID.Hex(),
				Status:  "spun",
				Winner:  outcome.WinnerName,
			})
		case errors.Is(err, ErrInsufficientParticipants):
			entries = append(entries, models.SweepEntry{
				WheelID: wheel.ID.Hex(),
				Status:  "skipped",
				Reason:  "not enough participants",
			})
		case errors.Is(err, ErrInvalidState), errors.Is(err, ErrNotFound):
			// Lost the race to another trigger, or the wheel vanished between
			// the sweep query and the attempt. Not a retryable condition.
			entries = append(entries, models.SweepEntry{
				WheelID: wheel.ID.Hex(),
				Status:  "skipped",
				Reason:  "already spun",
			})
		default:
			slog.Error("Sweep: wheel spin failed", "error", err, "wheelId", wheel.ID)
			entries = append(entries, models.SweepEntry{
				WheelID: wheel.ID.Hex(),
				Status:  "error",
				Reason:  err.Error(),
			})
		}
	}
	return entries, nil
}

// Reset reopens a wheel for another round without touching its history
func (s *SpinServiceImpl) Reset(ctx context.Context, wheelID, hostID primitive.ObjectID) error {
	wheel, err := s.wheelRepo.FindByID(ctx, wheelID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if wheel.AdminID != hostID {
		return ErrForbidden
	}

	ok, err := s.wheelRepo.ResetRound(ctx, wheelID)
	if err != nil {
		slog.Error("Reset: conditional write failed", "error", err, "wheelId", wheelID)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		return ErrInvalidState
	}

	s.publisher.PublishWheelUpdated(wheelID.Hex())
	slog.Info("Wheel reset", "wheelId", wheelID)
	return nil
}
