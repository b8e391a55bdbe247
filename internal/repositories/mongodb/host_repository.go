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

// HostRepository implements the repositories.HostRepository interface
type HostRepository struct {
	collection *mongo.Collection
}

// NewHostRepository creates a new HostRepository
func NewHostRepository(db *mongo.Database) repositories.HostRepository {
	return &HostRepository{
		collection: db.Collection("hosts"),
	}
}

// EnsureHostIndexes creates the unique email index.
func EnsureHostIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("hosts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create creates a new host account
func (r *HostRepository) Create(ctx context.Context, host *models.Host) error {
	host.CreatedAt = time.Now()
	host.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, host)
	if err != nil {
		return err
	}
	host.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail finds a host by email
func (r *HostRepository) FindByEmail(ctx context.Context, email string) (*models.Host, error) {
	var host models.Host
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&host)
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// FindByID finds a host by ID
func (r *HostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Host, error) {
	var host models.Host
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&host)
	if err != nil {
		return nil, err
	}
	return &host, nil
}
