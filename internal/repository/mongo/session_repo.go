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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// CreateMany inserts a batch of session skeletons.
func (r *mongoSessionRepository) CreateMany(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(sessions))
	for i := range sessions {
		if sessions[i].MicrocycleID == primitive.NilObjectID {
			return errors.New("session requires microcycleId")
		}
		sessions[i].ID = primitive.NewObjectID()
		sessions[i].CreatedAt = now
		sessions[i].UpdatedAt = now
		docs = append(docs, sessions[i])
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByMicrocycleID retrieves all sessions of a microcycle ordered by day.
func (r *mongoSessionRepository) GetByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.Session, error) {
	var sessions []domain.Session
	findOptions := options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"microcycleId": microcycleID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ReplaceContent swaps the session's content document wholesale together with
// its generation status and coach note. One call, one write: prior exercise
// rows are never patched in place, and a crash mid-batch leaves every other
// session untouched.
func (r *mongoSessionRepository) ReplaceContent(ctx context.Context, id primitive.ObjectID, content *domain.SessionContent, status domain.GenerationStatus, coachNote string) error {
	update := bson.M{"$set": bson.M{
		"content":   content,
		"status":    status,
		"coachNote": coachNote,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus transitions only the generation status.
func (r *mongoSessionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GenerationStatus) error {
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

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "microcycleId", Value: 1}, {Key: "dayNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
