package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant represents one named entrant on a wheel
type Participant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WheelID     primitive.ObjectID `bson:"wheelId" json:"wheelId"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	NameLower   string             `bson:"nameLower" json:"-"` // unique per wheel (compound index with wheelId)
	SlotsUsed   int                `bson:"slotsUsed" json:"slotsUsed"`
	JoinedAt    time.Time          `bson:"joinedAt" json:"joinedAt"`
}
