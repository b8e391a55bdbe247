package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WheelStatus represents the lifecycle state of a wheel
type WheelStatus string

const (
	WheelStatusOpen      WheelStatus = "open"
	WheelStatusSpinning  WheelStatus = "spinning"
	WheelStatusCompleted WheelStatus = "completed"
	WheelStatusClosed    WheelStatus = "closed"
)

// WheelTheme represents the visual theme of a wheel
type WheelTheme string

const (
	ThemeDefault WheelTheme = "default"
	ThemeNeon    WheelTheme = "neon"
	ThemeMinimal WheelTheme = "minimal"
	ThemeDark    WheelTheme = "dark"
)

// Wheel represents a spin wheel and its current round state
type Wheel struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdminID             primitive.ObjectID `bson:"adminId" json:"adminId"`
	Slug                string             `bson:"slug" json:"slug"`
	Title               string             `bson:"title" json:"title"`
	PrizeDescription    string             `bson:"prizeDescription,omitempty" json:"prizeDescription,omitempty"`
	Theme               WheelTheme         `bson:"theme" json:"theme"`
	MaxSlotsPerUser     int                `bson:"maxSlotsPerUser" json:"maxSlotsPerUser"`
	MaxParticipants     int                `bson:"maxParticipants,omitempty" json:"maxParticipants,omitempty"` // 0 = unlimited
	ShowConfetti        bool               `bson:"showConfetti" json:"showConfetti"`
	SoundEnabled        bool               `bson:"soundEnabled" json:"soundEnabled"`
	Status              WheelStatus        `bson:"status" json:"status"`
	SpinAt              *time.Time         `bson:"spinAt,omitempty" json:"spinAt,omitempty"`
	WinnerName          string             `bson:"winnerName,omitempty" json:"winnerName,omitempty"`
	WinnerParticipantID string             `bson:"winnerParticipantId,omitempty" json:"winnerParticipantId,omitempty"`
	SpinFinalAngle      float64            `bson:"spinFinalAngle,omitempty" json:"spinFinalAngle,omitempty"`
	SpinDuration        int                `bson:"spinDuration,omitempty" json:"spinDuration,omitempty"` // milliseconds
	SpinHistory         []SpinResult       `bson:"spinHistory,omitempty" json:"spinHistory,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SpinResult is one immutable entry in a wheel's spin history
type SpinResult struct {
	WinnerName string    `bson:"winnerName" json:"winner_name"`
	WinnerID   string    `bson:"winnerId" json:"winner_id"`
	SpunAt     time.Time `bson:"spunAt" json:"spun_at"`
	FinalAngle float64   `bson:"finalAngle" json:"final_angle"`
}
