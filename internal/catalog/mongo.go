// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// DefaultCollection is the collection the catalog lives in.
const DefaultCollection = "foods"

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// ConnectMongo opens a client and verifies the server with a ping.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping mongo: %w", ErrUnavailable, err)
	}
	return client, nil
}

// MongoStore implements Store on a MongoDB collection of dish documents keyed by dishId.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore wraps a collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique dishId index and the name lookup indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dishId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("dishId_unique"),
		},
		{Keys: bson.D{{Key: "nameKo", Value: 1}}},
		{Keys: bson.D{{Key: "nameEn", Value: 1}}},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create catalog indexes: %w", mongoErr(err))
	}
	return nil
}

// FindOne implements Store.
func (s *MongoStore) FindOne(ctx context.Context, id string) (*Item, error) {
	start := time.Now()

	var item Item
	err := s.coll.FindOne(ctx, bson.M{"dishId": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = ErrNotFound
	}
	metrics.RecordStoreOperation("mongo", "find_one", time.Since(start), ignoreNotFound(err))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find dish %s: %w", id, mongoErr(err))
	}
	return &item, nil
}

// FindAll implements Store.
func (s *MongoStore) FindAll(ctx context.Context, filter Filter) ([]*Item, error) {
	start := time.Now()

	query := bson.M{}
	if len(filter.IDs) > 0 {
		query["dishId"] = bson.M{"$in": filter.IDs}
	}
	if filter.Origin != "" {
		query["region.origin"] = filter.Origin
	}

	opts := options.Find().SetSort(bson.D{{Key: "dishId", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	items, err := s.findAll(ctx, query, opts)
	metrics.RecordStoreOperation("mongo", "find_all", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("find dishes: %w", mongoErr(err))
	}
	return items, nil
}

func (s *MongoStore) findAll(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*Item, error) {
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateSimilarFoods implements Store. MongoDB reports ModifiedCount 0 when $set writes a
// byte-identical value, which gives update-if-changed without a prior read. SimilarFoods encodes
// its criteria in a fixed order for this to hold.
func (s *MongoStore) UpdateSimilarFoods(ctx context.Context, id string, sf SimilarFoods) (int64, error) {
	start := time.Now()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"dishId": id},
		bson.M{"$set": bson.M{"similarFoods": sf}},
	)
	metrics.RecordStoreOperation("mongo", "update_similar_foods", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("update similarFoods of %s: %w", id, mongoErr(err))
	}
	return res.ModifiedCount, nil
}

// criterionOrder is the field order of an encoded similarFoods document.
var criterionOrder = []string{CriterionTaste, CriterionIngredient, CriterionCooking}

// MarshalBSONValue encodes the criteria as an ordered document: taste, ingredient, cooking,
// then any other key in lexical order. MongoDB compares embedded documents field by field, so
// an unchanged value must always encode the same way.
func (sf SimilarFoods) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if sf == nil {
		return bson.TypeNull, nil, nil
	}
	doc := make(bson.D, 0, len(sf))
	for _, k := range sf.orderedKeys() {
		doc = append(doc, bson.E{Key: k, Value: sf[k]})
	}
	return bson.MarshalValue(doc)
}

func (sf SimilarFoods) orderedKeys() []string {
	keys := make([]string, 0, len(sf))
	for _, k := range criterionOrder {
		if _, ok := sf[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range sf {
		if !slices.Contains(criterionOrder, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// Upsert implements Store.
func (s *MongoStore) Upsert(ctx context.Context, item *Item) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"dishId": item.ID},
		item,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert dish %s: %w", item.ID, mongoErr(err))
	}
	return nil
}

// Count implements Store.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count dishes: %w", mongoErr(err))
	}
	return n, nil
}

// mongoErr marks driver errors that mean "cannot reach the database" as ErrUnavailable.
func mongoErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return unavailable(err)
}
