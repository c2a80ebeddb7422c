package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deskhive/internal/migrations/mongo/validators"
)

var (
	PropertiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{
			{Key: "property_status", Value: 1},
			{Key: "name", Value: 1},
		}},
	}

	// The conflict scan filters on property and interval; listings filter
	// on user and status.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "check_in_time", Value: 1},
			{Key: "check_out_time", Value: 1},
			{Key: "booking_status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "booking_status", Value: 1},
			{Key: "check_in_time", Value: 1},
		}},
		{
			Keys:    bson.D{{Key: "booking_ref", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	// expireAfterSeconds 0 makes expires_at the literal expiry instant.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running DeskHive Mongo migrations on database: %s\n", dbName)

	collections := []struct {
		Name      string
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		{
			Name:      "properties",
			Indexes:   PropertiesIndexes,
			Validator: validators.PropertyValidator,
		},
		{
			Name:      "bookings",
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		{
			Name:      "booking_locks",
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
	}

	for _, def := range collections {
		if err := ensureCollection(ctx, db, def.Name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
