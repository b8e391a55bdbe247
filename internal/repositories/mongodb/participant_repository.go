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

// ParticipantRepository implements the repositories.ParticipantRepository interface
type ParticipantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *mongo.Database) repositories.ParticipantRepository {
	return &ParticipantRepository{
		collection: db.Collection("participants"),
	}
}

// EnsureParticipantIndexes creates the compound unique index that enforces
// case-insensitive name uniqueness per wheel. nameLower is stored lowercased
// at write time so the index itself does the case folding.
func EnsureParticipantIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("participants").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "wheelId", Value: 1}, {Key: "nameLower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create creates a new participant
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	participant.JoinedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, participant)
	if err != nil {
		return err
	}
	participant.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a participant by ID
func (r *ParticipantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	var participant models.Participant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&participant)
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// FindByWheelID finds all participants of a wheel in join order
func (r *ParticipantRepository) FindByWheelID(ctx context.Context, wheelID primitive.ObjectID) ([]*models.Participant, error) {
	opts := options.Find().SetSort(bson.M{"joinedAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"wheelId": wheelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []*models.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []*models.Participant{}
	}
	return participants, nil
}

// FindByName finds a participant by its lowercased name within a wheel
func (r *ParticipantRepository) FindByName(ctx context.Context, wheelID primitive.ObjectID, nameLower string) (*models.Participant, error) {
	var participant models.Participant
	err := r.collection.FindOne(ctx, bson.M{"wheelId": wheelID, "nameLower": nameLower}).Decode(&participant)
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// CountByWheelID counts the participants of a wheel
func (r *ParticipantRepository) CountByWheelID(ctx context.Context, wheelID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"wheelId": wheelID})
}

// IncrementSlots adds one slot to a participant with the per-user cap enforced
// in the update filter, so a concurrent re-join cannot exceed the cap.
func (r *ParticipantRepository) IncrementSlots(ctx context.Context, id primitive.ObjectID, cap int) (bool, error) {
	filter := bson.M{"_id": id, "slotsUsed": bson.M{"$lt": cap}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"slotsUsed": 1}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Delete deletes a participant by ID
func (r *ParticipantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByWheelID removes all participants of a wheel (cascade on wheel delete)
func (r *ParticipantRepository) DeleteByWheelID(ctx context.Context, wheelID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"wheelId": wheelID})
	return err
}
