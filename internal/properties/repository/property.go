package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	propertieserrors "deskhive/internal/properties/errors"
	"deskhive/pkg/config"
	"deskhive/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "properties"
)

type mongoPropertyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindAll(ctx context.Context, filter SearchFilter, limit int, offset int64) ([]*model.Property, error)
	Count(ctx context.Context, filter SearchFilter) (int64, error)
	Update(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

// SearchFilter narrows property listings; zero values mean "any".
type SearchFilter struct {
	OwnerID string
	Status  string
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPropertyRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	property.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, property)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		property.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	var property model.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, propertieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	return &property, nil
}

func (r *mongoPropertyRepository) FindAll(ctx context.Context, filter SearchFilter, limit int, offset int64) ([]*model.Property, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, r.buildSearchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []*model.Property
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	return properties, nil
}

func (r *mongoPropertyRepository) Count(ctx context.Context, filter SearchFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildSearchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}

	return count, nil
}

func (r *mongoPropertyRepository) Update(ctx context.Context, id string, property *model.Property) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":              property.Name,
			"property_status":   property.Status,
			"seating_capacity":  property.SeatingCapacity,
			"unavailable_dates": property.UnavailableDates,
			"booking_rules":     property.BookingRules,
			"pricing":           property.Pricing,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, propertieserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoPropertyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	if result.DeletedCount == 0 {
		return propertieserrors.ErrNotFound
	}

	return nil
}

func (r *mongoPropertyRepository) buildSearchFilter(f SearchFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		filter["property_status"] = f.Status
	}
	return filter
}
