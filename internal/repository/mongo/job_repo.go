package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
)

const jobCollectionName = "generation_jobs"

// mongoGenerationJobRepository implements repository.GenerationJobRepository
type mongoGenerationJobRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationJobRepository creates a new generation-job repository.
func NewMongoGenerationJobRepository(db *mongo.Database) repository.GenerationJobRepository {
	return &mongoGenerationJobRepository{
		collection: db.Collection(jobCollectionName),
	}
}

// Create records a newly enqueued job.
func (r *mongoGenerationJobRepository) Create(ctx context.Context, job *domain.GenerationJob) (primitive.ObjectID, error) {
	if job.JobID == uuid.Nil || job.MicrocycleID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("generation job requires jobId and microcycleId")
	}
	job.ID = primitive.NewObjectID()
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, job)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted job ID")
	}
	return insertedID, nil
}

// GetByJobID retrieves a job by its correlation UUID.
func (r *mongoGenerationJobRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	err := r.collection.FindOne(ctx, bson.M{"jobId": jobID}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// GetLatestByMicrocycleID retrieves the most recently enqueued job for a
// microcycle.
func (r *mongoGenerationJobRepository) GetLatestByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	findOptions := options.FindOne().SetSort(bson.D{{Key: "enqueuedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"microcycleId": microcycleID}, findOptions).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// SetStatus transitions a job's status, stamping start/finish times.
func (r *mongoGenerationJobRepository) SetStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus, errMsg string) error {
	now := time.Now().UTC()
	set := bson.M{"status": status, "error": errMsg}
	switch status {
	case domain.JobRunning:
		set["startedAt"] = now
	case domain.JobSucceeded, domain.JobFailed:
		set["finishedAt"] = now
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"jobId": jobID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGenerationJobIndexes creates necessary indexes. Call during startup.
func EnsureGenerationJobIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "jobId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "microcycleId", Value: 1}, {Key: "enqueuedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
