// Package wheelmath holds the pure spin computations: expanding weighted
// participant entries into flat slots, drawing a winner, and turning the
// winning slot into the rotation a client animates.
package wheelmath

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand"

	"github.com/winsim/wheel-backend/internal/models"
)

// Slot is one weighted draw entry. A participant with slotsUsed=3
// occupies 3 consecutive slots.
type Slot struct {
	ParticipantID string
	Name          string
}

// ExpandSlots flattens participants into their weighted slot sequence.
// Entries for each participant are contiguous and follow the input order,
// which callers keep sorted by join time.
func ExpandSlots(participants []*models.Participant) []Slot {
	var slots []Slot
	for _, p := range participants {
		for i := 0; i < p.SlotsUsed; i++ {
			slots = append(slots, Slot{ParticipantID: p.ID.Hex(), Name: p.DisplayName})
		}
	}
	return slots
}

// PickWinner draws a uniformly random index in [0, total) from crypto/rand.
// The draw takes a 32-bit value mod total, which carries a negligible modulo
// bias when total does not divide 2^32 evenly. Acceptable here.
func PickWinner(total int) (int, error) {
	if total < 2 {
		return 0, fmt.Errorf("need at least 2 slots, have %d", total)
	}
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	value := binary.BigEndian.Uint32(buf[:])
	return int(value % uint32(total)), nil
}

// Spin carries the animation parameters a client needs to land the pointer
// on the winning slice.
type Spin struct {
	FinalAngle float64 // cumulative degrees, unreduced
	Duration   int     // milliseconds
}

// ComputeSpin converts a winning index into the rotation the client animates.
// Slice 0 starts at angle 0 with the pointer fixed at 12 o'clock; increasing
// rotation moves the wheel clockwise, so 360-center degrees past a full
// multiple of 360 parks the winning slice's center under the pointer.
// The extra full rotations and the duration are cosmetic and not reproducible.
func ComputeSpin(winnerIndex, total int) Spin {
	sliceAngle := 360.0 / float64(total)
	targetSliceCenter := float64(winnerIndex)*sliceAngle + sliceAngle/2
	fullRotations := 5 + mrand.Intn(3)
	return Spin{
		FinalAngle: float64(fullRotations)*360 + (360 - targetSliceCenter),
		Duration:   4000 + mrand.Intn(3000),
	}
}

// TargetSliceCenter returns the resting angle of the winning slice's center
// before any rotation. Exposed for the animation invariant checks.
func TargetSliceCenter(winnerIndex, total int) float64 {
	sliceAngle := 360.0 / float64(total)
	return float64(winnerIndex)*sliceAngle + sliceAngle/2
}
