// internal/store/mongo.go - MongoDB implementation of the persistence collaborator
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

var mongoLogger = utils.NewComponentLogger("mongo-store")

// MongoStore implements Store against the platform's MongoDB instance.
type MongoStore struct {
	client     *mongo.Client
	businesses *mongoCollection
	news       *mongoCollection
	events     *mongoCollection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg config.StorageConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("storage URI is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("storage database name is required")
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	mongoLogger.Infof("connected to %s/%s", cfg.URI, cfg.Database)

	return &MongoStore{
		client:     client,
		businesses: &mongoCollection{coll: db.Collection(cfg.Collections.Businesses)},
		news:       &mongoCollection{coll: db.Collection(cfg.Collections.News)},
		events:     &mongoCollection{coll: db.Collection(cfg.Collections.Events)},
	}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Businesses() Collection { return s.businesses }
func (s *MongoStore) News() Collection       { return s.news }
func (s *MongoStore) Events() Collection     { return s.events }

// ExistingBusinesses loads the duplicate-comparison snapshot, projecting only
// the fields the resolver needs.
func (s *MongoStore) ExistingBusinesses(ctx context.Context) ([]types.ExistingBusiness, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "address": 1})
	cursor, err := s.businesses.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("load business snapshot: %w", err)
	}
	defer cursor.Close(ctx)

	var snapshot []types.ExistingBusiness
	if err := cursor.All(ctx, &snapshot); err != nil {
		return nil, fmt.Errorf("decode business snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoCollection adapts one *mongo.Collection to the Collection surface.
type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) FindAll(ctx context.Context, filter Filter, out interface{}) error {
	cursor, err := c.coll.Find(ctx, toBSON(filter))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (c *mongoCollection) FindByID(ctx context.Context, id string, out interface{}) (bool, error) {
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *mongoCollection) UpsertByID(ctx context.Context, id string, doc interface{}) error {
	opts := options.Replace().SetUpsert(true)
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (c *mongoCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	result, err := c.coll.DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (c *mongoCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, toBSON(filter))
}

func toBSON(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}
