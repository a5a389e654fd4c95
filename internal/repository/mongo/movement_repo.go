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

const (
	movementCollectionName = "movements"
	circuitCollectionName  = "circuit_templates"
)

// mongoMovementRepository implements repository.MovementRepository
type mongoMovementRepository struct {
	movements *mongo.Collection
	circuits  *mongo.Collection
}

// NewMongoMovementRepository creates a new movement/circuit catalog repository.
func NewMongoMovementRepository(db *mongo.Database) repository.MovementRepository {
	return &mongoMovementRepository{
		movements: db.Collection(movementCollectionName),
		circuits:  db.Collection(circuitCollectionName),
	}
}

// Create inserts a new movement.
func (r *mongoMovementRepository) Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error) {
	if movement.Name == "" || movement.Pattern == "" {
		return primitive.NilObjectID, errors.New("movement requires name and pattern")
	}
	movement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	movement.CreatedAt = now
	movement.UpdatedAt = now

	result, err := r.movements.InsertOne(ctx, movement)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted movement ID")
	}
	return insertedID, nil
}

// GetAll retrieves the whole movement catalog, alphabetical by name.
func (r *mongoMovementRepository) GetAll(ctx context.Context) ([]domain.Movement, error) {
	var movements []domain.Movement
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.movements.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// GetByName retrieves a movement by its unique name.
func (r *mongoMovementRepository) GetByName(ctx context.Context, name string) (*domain.Movement, error) {
	var movement domain.Movement
	err := r.movements.FindOne(ctx, bson.M{"name": name}).Decode(&movement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// Count returns the catalog size, used to decide whether to seed defaults.
func (r *mongoMovementRepository) Count(ctx context.Context) (int64, error) {
	return r.movements.CountDocuments(ctx, bson.M{})
}

// CreateCircuit inserts a new circuit template.
func (r *mongoMovementRepository) CreateCircuit(ctx context.Context, circuit *domain.CircuitTemplate) (primitive.ObjectID, error) {
	if circuit.Name == "" || len(circuit.MovementNames) == 0 {
		return primitive.NilObjectID, errors.New("circuit requires name and constituent movements")
	}
	circuit.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	circuit.CreatedAt = now
	circuit.UpdatedAt = now

	result, err := r.circuits.InsertOne(ctx, circuit)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted circuit ID")
	}
	return insertedID, nil
}

// GetAllCircuits retrieves every circuit template.
func (r *mongoMovementRepository) GetAllCircuits(ctx context.Context) ([]domain.CircuitTemplate, error) {
	var circuits []domain.CircuitTemplate
	cursor, err := r.circuits.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if err = cursor.All(ctx, &circuits); err != nil {
		return nil, err
	}
	return circuits, nil
}

// EnsureMovementIndexes creates necessary indexes. Call during startup.
func EnsureMovementIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "pattern", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
