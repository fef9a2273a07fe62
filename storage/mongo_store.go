package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"rental-listings-importer/models"
)

const mongoCollection = "rental_listings"

// MongoStore keeps listings in the rental_listings collection keyed by _id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(mongoCollection),
	}, nil
}

// upsertModel overwrites every non-key field and sets created_at only when
// the document is inserted.
func upsertModel(l models.ListingRecord) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"_id": l.ID}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"name":             l.Name,
				"address":          l.Address,
				"apartment_number": l.ApartmentNumber,
				"rent":             l.Rent,
				"floor_area":       l.FloorArea,
				"building_type":    l.BuildingType,
				"updated_at":       l.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": l.CreatedAt},
		}).
		SetUpsert(true)
}

// Upsert sends the chunk as one ordered bulk write, so a repeated ID within
// the chunk resolves to its last occurrence.
func (m *MongoStore) Upsert(ctx context.Context, listings []models.ListingRecord) error {
	if len(listings) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(listings))
	for _, l := range listings {
		writes = append(writes, upsertModel(l))
	}

	if _, err := m.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("mongo: bulk upsert %d listings: %w", len(listings), err)
	}
	return nil
}

func (m *MongoStore) FetchAll(ctx context.Context) ([]*models.ListingRecord, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: fetch all: %w", err)
	}

	var listings []*models.ListingRecord
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("mongo: decode listings: %w", err)
	}
	return listings, nil
}

func (m *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo: count: %w", err)
	}
	return int(n), nil
}

func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}
