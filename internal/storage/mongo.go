// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoCollection keeps one record per document with the entity id as _id.
// Records are decoded straight into T through their bson tags.
type mongoCollection[T Record] struct {
	name    string
	coll    *mongo.Collection
	timeout time.Duration
}

func newMongoCollection[T Record](coll *mongo.Collection, name string, timeout time.Duration) *mongoCollection[T] {
	return &mongoCollection[T]{name: name, coll: coll, timeout: timeout}
}

func (c *mongoCollection[T]) Name() string { return c.name }

func (c *mongoCollection[T]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, unavailable("list", c.name, err)
	}
	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, unavailable("list", c.name, err)
	}
	return items, nil
}

func (c *mongoCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (c *mongoCollection[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	return c.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (c *mongoCollection[T]) findOne(ctx context.Context, filter bson.D) (*T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	var item T
	err := c.coll.FindOne(ctx, filter, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find", c.name, err)
	}
	return &item, nil
}

func (c *mongoCollection[T]) Insert(ctx context.Context, item T) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return unavailable("insert", c.name, err)
	}
	return nil
}

func (c *mongoCollection[T]) Update(ctx context.Context, item T) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: item.RecordID()}}, item)
	if err != nil {
		return unavailable("update", c.name, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return unavailable("delete", c.name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Count(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, unavailable("count", c.name, err)
	}
	return int(n), nil
}

func (c *mongoCollection[T]) Upsert(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: item.RecordID()}}).
			SetReplacement(item).
			SetUpsert(true))
	}
	if _, err := c.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return unavailable("upsert", c.name, err)
	}
	return nil
}

// bsonKeys builds an ascending index key document.
func bsonKeys(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}
