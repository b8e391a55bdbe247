package wheelmath

import (
	"math"
	"testing"

	"github.com/winsim/wheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func participant(name string, slots int) *models.Participant {
	return &models.Participant{
		ID:          primitive.NewObjectID(),
		DisplayName: name,
		SlotsUsed:   slots,
	}
}

func TestExpandSlots_WeightsAndOrder(t *testing.T) {
	alice := participant("Alice", 2)
	bob := participant("Bob", 3)
	carol := participant("Carol", 1)

	slots := ExpandSlots([]*models.Participant{alice, bob, carol})

	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
	expected := []string{"Alice", "Alice", "Bob", "Bob", "Bob", "Carol"}
	for i, want := range expected {
		if slots[i].Name != want {
			t.Errorf("slot %d: got %q, want %q", i, slots[i].Name, want)
		}
	}
	for i := 0; i < 2; i++ {
		if slots[i].ParticipantID != alice.ID.Hex() {
			t.Errorf("slot %d should belong to Alice", i)
		}
	}
}

func TestExpandSlots_Empty(t *testing.T) {
	if slots := ExpandSlots(nil); len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestPickWinner_RejectsTooFewSlots(t *testing.T) {
	for _, total := range []int{0, 1} {
		if _, err := PickWinner(total); err == nil {
			t.Errorf("PickWinner(%d) should fail", total)
		}
	}
}

func TestPickWinner_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		w, err := PickWinner(7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w < 0 || w >= 7 {
			t.Fatalf("index %d out of range [0,7)", w)
		}
	}
}

func TestPickWinner_Uniformity(t *testing.T) {
	const total = 5
	const rounds = 100_000
	counts := make([]int, total)
	for i := 0; i < rounds; i++ {
		w, err := PickWinner(total)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[w]++
	}
	// Each index should land within 2% of 1/5.
	for i, c := range counts {
		p := float64(c) / rounds
		if p < 0.18 || p > 0.22 {
			t.Errorf("index %d frequency %.4f outside [0.18, 0.22]", i, p)
		}
	}
}

func TestComputeSpin_LandsOnWinningSlice(t *testing.T) {
	cases := []struct {
		winner, total int
		center        float64
		restingAngle  float64 // finalAngle mod 360
	}{
		{0, 4, 45, 315},
		{2, 5, 180, 180},
		{3, 4, 315, 45},
		{0, 2, 90, 270},
	}
	for _, tc := range cases {
		if got := TargetSliceCenter(tc.winner, tc.total); math.Abs(got-tc.center) > 1e-9 {
			t.Errorf("center(%d,%d) = %v, want %v", tc.winner, tc.total, got, tc.center)
		}
		spin := ComputeSpin(tc.winner, tc.total)
		resting := math.Mod(spin.FinalAngle, 360)
		if math.Abs(resting-tc.restingAngle) > 1e-9 {
			t.Errorf("spin(%d,%d) resting angle %v, want %v", tc.winner, tc.total, resting, tc.restingAngle)
		}
	}
}

func TestComputeSpin_RotationsAndDuration(t *testing.T) {
	for i := 0; i < 200; i++ {
		spin := ComputeSpin(1, 6)
		rotations := int(spin.FinalAngle / 360)
		if rotations < 5 || rotations > 7 {
			t.Fatalf("full rotations %d outside [5,7]", rotations)
		}
		if spin.Duration < 4000 || spin.Duration > 6999 {
			t.Fatalf("duration %d outside [4000,6999]", spin.Duration)
		}
	}
}
