package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
)

const recoveryCollectionName = "recovery_signals"

// mongoRecoveryRepository implements repository.RecoveryRepository
type mongoRecoveryRepository struct {
	collection *mongo.Collection
}

// NewMongoRecoveryRepository creates a new recovery-signal repository.
func NewMongoRecoveryRepository(db *mongo.Database) repository.RecoveryRepository {
	return &mongoRecoveryRepository{
		collection: db.Collection(recoveryCollectionName),
	}
}

// Create inserts one day's recovery signal.
func (r *mongoRecoveryRepository) Create(ctx context.Context, signal *domain.RecoverySignal) (primitive.ObjectID, error) {
	if signal.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("recovery signal requires userId")
	}
	signal.ID = primitive.NewObjectID()
	signal.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, signal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted recovery signal ID")
	}
	return insertedID, nil
}

// GetSince retrieves a user's signals on or after the given time, oldest first.
func (r *mongoRecoveryRepository) GetSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.RecoverySignal, error) {
	var signals []domain.RecoverySignal
	filter := bson.M{"userId": userID, "date": bson.M{"$gte": since}}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// EnsureRecoveryIndexes creates necessary indexes. Call during startup.
func EnsureRecoveryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
