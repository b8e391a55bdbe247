package repositories

import (
	"context"
	"time"

	"github.com/winsim/wheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinFields is the set of wheel fields written atomically when a spin lands.
type SpinFields struct {
	WinnerName          string
	WinnerParticipantID string
	FinalAngle          float64
	Duration            int
	Result              models.SpinResult
}

// ConfigChanges carries the host-editable wheel fields for a targeted update.
// Nil fields are left untouched. Status, winner fields and spin history are
// not writable through this path; those move only via the conditional writes.
type ConfigChanges struct {
	Title            *string
	PrizeDescription *string
	Theme            *models.WheelTheme
	MaxSlotsPerUser  *int
	MaxParticipants  *int
	ShowConfetti     *bool
	SoundEnabled     *bool
	SpinAt           *time.Time
	ClearSpinAt      bool
}

// IsEmpty reports whether the change set would write nothing.
func (c ConfigChanges) IsEmpty() bool {
	return c.Title == nil && c.PrizeDescription == nil && c.Theme == nil &&
		c.MaxSlotsPerUser == nil && c.MaxParticipants == nil &&
		c.ShowConfetti == nil && c.SoundEnabled == nil &&
		c.SpinAt == nil && !c.ClearSpinAt
}

// WheelRepository defines the interface for wheel data operations
type WheelRepository interface {
	Create(ctx context.Context, wheel *models.Wheel) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Wheel, error)
	FindBySlug(ctx context.Context, slug string) (*models.Wheel, error)
	FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Wheel, error)
	// FindDue returns open wheels whose scheduled spin time is at or before now.
	FindDue(ctx context.Context, now time.Time) ([]*models.Wheel, error)
	// UpdateConfig sets only the fields named in changes. A concurrent spin
	// landing between a read and this write is never overwritten because the
	// outcome fields are outside the reachable set.
	UpdateConfig(ctx context.Context, id primitive.ObjectID, changes ConfigChanges) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// CompleteSpin writes the spin outcome in a single update conditioned on the
	// wheel still being open. Returns false when the condition no longer holds,
	// which is how a racing trigger loses.
	CompleteSpin(ctx context.Context, id primitive.ObjectID, fields SpinFields) (bool, error)
	// ResetRound clears the winner fields and reopens the wheel, conditioned on
	// the wheel not already being open. Spin history is preserved.
	ResetRound(ctx context.Context, id primitive.ObjectID) (bool, error)
	// SetStatus transitions status from one value to another, conditionally.
	SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.WheelStatus) (bool, error)
}

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error)
	// FindByWheelID returns participants ordered by join time, the order slot
	// expansion depends on.
	FindByWheelID(ctx context.Context, wheelID primitive.ObjectID) ([]*models.Participant, error)
	FindByName(ctx context.Context, wheelID primitive.ObjectID, nameLower string) (*models.Participant, error)
	CountByWheelID(ctx context.Context, wheelID primitive.ObjectID) (int64, error)
	// IncrementSlots adds one slot to a participant, conditioned on the current
	// count staying under cap. Returns false when the cap is already reached.
	IncrementSlots(ctx context.Context, id primitive.ObjectID, cap int) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWheelID(ctx context.Context, wheelID primitive.ObjectID) error
}

// HostRepository defines the interface for host account operations
type HostRepository interface {
	Create(ctx context.Context, host *models.Host) error
	FindByEmail(ctx context.Context, email string) (*models.Host, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Host, error)
}
