package mongodb

import (
	"context"
	"time"

	"github.com/winsim/wheel-backend/internal/models"
	"github.com/winsim/wheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WheelRepository implements the repositories.WheelRepository interface
type WheelRepository struct {
	collection *mongo.Collection
}

// NewWheelRepository creates a new WheelRepository
func NewWheelRepository(db *mongo.Database) repositories.WheelRepository {
	return &WheelRepository{
		collection: db.Collection("wheels"),
	}
}

// EnsureWheelIndexes creates the unique slug index.
func EnsureWheelIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("wheels").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create creates a new wheel
func (r *WheelRepository) Create(ctx context.Context, wheel *models.Wheel) error {
	wheel.CreatedAt = time.Now()
	wheel.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, wheel)
	if err != nil {
		return err
	}
	wheel.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a wheel by ID
func (r *WheelRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Wheel, error) {
	var wheel models.Wheel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&wheel)
	if err != nil {
		return nil, err
	}
	return &wheel, nil
}

// FindBySlug finds a wheel by its shareable slug
func (r *WheelRepository) FindBySlug(ctx context.Context, slug string) (*models.Wheel, error) {
	var wheel models.Wheel
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&wheel)
	if err != nil {
		return nil, err
	}
	return &wheel, nil
}

// FindByAdminID finds all wheels owned by a host, newest first
func (r *WheelRepository) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Wheel, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"adminId": adminID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wheels []*models.Wheel
	if err := cursor.All(ctx, &wheels); err != nil {
		return nil, err
	}
	if wheels == nil {
		wheels = []*models.Wheel{}
	}
	return wheels, nil
}

// FindDue finds open wheels with a scheduled spin time at or before now
func (r *WheelRepository) FindDue(ctx context.Context, now time.Time) ([]*models.Wheel, error) {
	filter := bson.M{
		"status": models.WheelStatusOpen,
		"spinAt": bson.M{"$ne": nil, "$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"spinAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var wheels []*models.Wheel
	if err := cursor.All(ctx, &wheels); err != nil {
		return nil, err
	}
	if wheels == nil {
		wheels = []*models.Wheel{}
	}
	return wheels, nil
}

// UpdateConfig applies host configuration changes as a targeted $set. Only the
// editable fields are reachable here, so a spin outcome written concurrently
// by CompleteSpin can never be clobbered by a stale config read.
func (r *WheelRepository) UpdateConfig(ctx context.Context, id primitive.ObjectID, changes repositories.ConfigChanges) error {
	set := bson.M{"updatedAt": time.Now()}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.PrizeDescription != nil {
		set["prizeDescription"] = *changes.PrizeDescription
	}
	if changes.Theme != nil {
		set["theme"] = *changes.Theme
	}
	if changes.MaxSlotsPerUser != nil {
		set["maxSlotsPerUser"] = *changes.MaxSlotsPerUser
	}
	if changes.MaxParticipants != nil {
		set["maxParticipants"] = *changes.MaxParticipants
	}
	if changes.ShowConfetti != nil {
		set["showConfetti"] = *changes.ShowConfetti
	}
	if changes.SoundEnabled != nil {
		set["soundEnabled"] = *changes.SoundEnabled
	}
	update := bson.M{"$set": set}
	if changes.ClearSpinAt {
		update["$unset"] = bson.M{"spinAt": ""}
	} else if changes.SpinAt != nil {
		set["spinAt"] = *changes.SpinAt
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete deletes a wheel by ID
func (r *WheelRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CompleteSpin writes the spin outcome in a single conditional update. The
// filter requires status to still be "open" at write time, so of two racing
// triggers only the first update matches a document.
func (r *WheelRepository) CompleteSpin(ctx context.Context, id primitive.ObjectID, fields repositories.SpinFields) (bool, error) {
	filter := bson.M{"_id": id, "status": models.WheelStatusOpen}
	update := bson.M{
		"$set": bson.M{
			"status":              models.WheelStatusCompleted,
			"winnerName":          fields.WinnerName,
			"winnerParticipantId": fields.WinnerParticipantID,
			"spinFinalAngle":      fields.FinalAngle,
			"spinDuration":        fields.Duration,
			"updatedAt":           time.Now(),
		},
		"$push": bson.M{"spinHistory": fields.Result},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ResetRound reopens a wheel for a new round, clearing the outcome fields but
// keeping the spin history. Conditional on the wheel not already being open.
func (r *WheelRepository) ResetRound(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.WheelStatusOpen}}
	update := bson.M{
		"$set": bson.M{
			"status":    models.WheelStatusOpen,
			"updatedAt": time.Now(),
		},
		"$unset": bson.M{
			"winnerName":          "",
			"winnerParticipantId": "",
			"spinFinalAngle":      "",
			"spinDuration":        "",
			"spinAt":              "",
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// SetStatus transitions a wheel's status with a compare-and-set filter
func (r *WheelRepository) SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.WheelStatus) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
