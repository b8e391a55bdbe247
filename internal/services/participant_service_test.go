package services

import (
	"context"
	"errors"
	"testing"

	"github.com/winsim/wheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestParticipantService(wheelRepo *memWheelRepo, participantRepo *memParticipantRepo) *ParticipantServiceImpl {
	return NewParticipantService(wheelRepo, participantRepo, &recordingPublisher{})
}

func TestJoin_Basic(t *testing.T) {
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(primitive.NewObjectID())
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	p, err := svc.Join(context.Background(), wheel.ID, "  Alice  ", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DisplayName != "Alice" {
		t.Errorf("display name %q, want trimmed Alice", p.DisplayName)
	}
	if p.SlotsUsed != 1 {
		t.Errorf("slots used %d, want 1", p.SlotsUsed)
	}
}

func TestJoin_DuplicateNameCaseInsensitive(t *testing.T) {
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(primitive.NewObjectID())
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	ctx := context.Background()
	if _, err := svc.Join(ctx, wheel.ID, "Alice", false); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	for _, variant := range []string{"Alice", "alice", "ALICE"} {
		if _, err := svc.Join(ctx, wheel.ID, variant, false); !errors.Is(err, ErrDuplicateName) {
			t.Errorf("join %q: got %v, want ErrDuplicateName", variant, err)
		}
	}
}

func TestJoin_AddSlot(t *testing.T) {
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(primitive.NewObjectID())
	wheel.MaxSlotsPerUser = 2
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	ctx := context.Background()
	if _, err := svc.Join(ctx, wheel.ID, "Alice", false); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// Same name with add_slot bumps the existing entry instead of failing.
	p, err := svc.Join(ctx, wheel.ID, "alice", true)
	if err != nil {
		t.Fatalf("add slot failed: %v", err)
	}
	if p.SlotsUsed != 2 {
		t.Errorf("slots used %d, want 2", p.SlotsUsed)
	}

	// Cap reached.
	if _, err := svc.Join(ctx, wheel.ID, "Alice", true); !errors.Is(err, ErrWheelFull) {
		t.Errorf("got %v, want ErrWheelFull", err)
	}
}

func TestJoin_AddSlotForUnknownNameCreatesEntry(t *testing.T) {
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(primitive.NewObjectID())
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	p, err := svc.Join(context.Background(), wheel.ID, "Bob", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SlotsUsed != 1 {
		t.Errorf("slots used %d, want 1", p.SlotsUsed)
	}
}

func TestJoin_MaxParticipants(t *testing.T) {
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(primitive.NewObjectID())
	wheel.MaxParticipants = 2
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	ctx := context.Background()
	for _, name := range []string{"alice", "bob"} {
		if _, err := svc.Join(ctx, wheel.ID, name, false); err != nil {
			t.Fatalf("join %s failed: %v", name, err)
		}
	}
	if _, err := svc.Join(ctx, wheel.ID, "carol", false); !errors.Is(err, ErrWheelFull) {
		t.Fatalf("got %v, want ErrWheelFull", err)
	}
}

func TestJoin_ClosedWheel(t *testing.T) {
	for _, status := range []models.WheelStatus{models.WheelStatusClosed, models.WheelStatusSpinning, models.WheelStatusCompleted} {
		wheelRepo := newMemWheelRepo()
		wheel := openWheel(primitive.NewObjectID())
		wheel.Status = status
		wheelRepo.put(wheel)

		svc := newTestParticipantService(wheelRepo, newMemParticipantRepo())
		if _, err := svc.Join(context.Background(), wheel.ID, "alice", false); !errors.Is(err, ErrWheelClosed) {
			t.Errorf("status=%s: got %v, want ErrWheelClosed", status, err)
		}
	}
}

func TestJoin_UnknownWheel(t *testing.T) {
	svc := newTestParticipantService(newMemWheelRepo(), newMemParticipantRepo())
	if _, err := svc.Join(context.Background(), primitive.NewObjectID(), "alice", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAddByHost_AllowedOnClosedWheel(t *testing.T) {
	adminID := primitive.NewObjectID()
	wheelRepo := newMemWheelRepo()
	wheel := openWheel(adminID)
	wheel.Status = models.WheelStatusClosed
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, newMemParticipantRepo())
	if _, err := svc.AddByHost(context.Background(), wheel.ID, adminID, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddByHost_RequiresOwner(t *testing.T) {
	wheelRepo := newMemWheelRepo()
	wheel := openWheel(primitive.NewObjectID())
	wheelRepo.put(wheel)

	svc := newTestParticipantService(wheelRepo, newMemParticipantRepo())
	if _, err := svc.AddByHost(context.Background(), wheel.ID, primitive.NewObjectID(), "alice"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestRemove_WrongWheel(t *testing.T) {
	adminID := primitive.NewObjectID()
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(adminID)
	other := openWheel(adminID)
	other.Slug = "other"
	wheelRepo.put(wheel)
	wheelRepo.put(other)
	p := addParticipant(t, participantRepo, other.ID, "alice", 1)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	// Participant belongs to a different wheel than the one in the path.
	if err := svc.Remove(context.Background(), wheel.ID, p.ID, adminID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRemove_Basic(t *testing.T) {
	adminID := primitive.NewObjectID()
	wheelRepo := newMemWheelRepo()
	participantRepo := newMemParticipantRepo()
	wheel := openWheel(adminID)
	wheelRepo.put(wheel)
	p := addParticipant(t, participantRepo, wheel.ID, "alice", 1)

	svc := newTestParticipantService(wheelRepo, participantRepo)
	ctx := context.Background()
	if err := svc.Remove(ctx, wheel.ID, p.ID, adminID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ := participantRepo.CountByWheelID(ctx, wheel.ID)
	if count != 0 {
		t.Errorf("roster count %d after remove, want 0", count)
	}
}
