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

const microcycleCollectionName = "microcycles"

// mongoMicrocycleRepository implements repository.MicrocycleRepository
type mongoMicrocycleRepository struct {
	collection *mongo.Collection
}

// NewMongoMicrocycleRepository creates a new microcycle repository.
func NewMongoMicrocycleRepository(db *mongo.Database) repository.MicrocycleRepository {
	return &mongoMicrocycleRepository{
		collection: db.Collection(microcycleCollectionName),
	}
}

// Create inserts a new microcycle.
func (r *mongoMicrocycleRepository) Create(ctx context.Context, microcycle *domain.Microcycle) (primitive.ObjectID, error) {
	if microcycle.ProgramID == primitive.NilObjectID || microcycle.SequenceNumber < 1 {
		return primitive.NilObjectID, errors.New("microcycle requires programId and a 1-based sequence number")
	}
	microcycle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	microcycle.CreatedAt = now
	microcycle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, microcycle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted microcycle ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single microcycle by its ID.
func (r *mongoMicrocycleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Microcycle, error) {
	var microcycle domain.Microcycle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&microcycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &microcycle, nil
}

// GetByProgramID retrieves all microcycles of a program in sequence order.
func (r *mongoMicrocycleRepository) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Microcycle, error) {
	var microcycles []domain.Microcycle
	findOptions := options.Find().SetSort(bson.D{{Key: "sequenceNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"programId": programID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &microcycles); err != nil {
		return nil, err
	}
	return microcycles, nil
}

// GetActiveByProgramID retrieves the single ACTIVE microcycle of a program.
func (r *mongoMicrocycleRepository) GetActiveByProgramID(ctx context.Context, programID primitive.ObjectID) (*domain.Microcycle, error) {
	var microcycle domain.Microcycle
	filter := bson.M{"programId": programID, "status": domain.MicrocycleActive}
	err := r.collection.FindOne(ctx, filter).Decode(&microcycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &microcycle, nil
}

// UpdateStatus transitions a microcycle's lifecycle status.
func (r *mongoMicrocycleRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MicrocycleStatus) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMicrocycleIndexes creates necessary indexes. Call during startup.
func EnsureMicrocycleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "sequenceNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
