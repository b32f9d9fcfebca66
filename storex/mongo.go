package storex

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection is the subset of *mongo.Collection used by MongoKV
type Collection interface {
	Name() string
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoKV stores one document per key, keyed by _id
type MongoKV struct {
	collection Collection
	now        func() time.Time
}

var _ KV = (*MongoKV)(nil)

// NewMongoKV wraps a collection
func NewMongoKV(collection Collection) *MongoKV {
	return &MongoKV{collection: collection, now: time.Now}
}

// ConnectMongo opens a client and verifies it with a ping
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storeErrors.NewWithCause(ErrConnectionFailed, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, storeErrors.NewWithCause(ErrConnectionFailed, err)
	}
	return client, nil
}

func (m *MongoKV) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErrors.NewWithCause(ErrMongoFindFailed, err).
			WithDetail("key", key).
			WithDetail("collection", m.collection.Name())
	}
	return doc.Value, true, nil
}

func (m *MongoKV) Set(ctx context.Context, key, value string) error {
	_, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value, "updated_at": m.now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storeErrors.NewWithCause(ErrMongoUpdateFailed, err).
			WithDetail("key", key).
			WithDetail("collection", m.collection.Name())
	}
	return nil
}

func (m *MongoKV) Delete(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return storeErrors.NewWithCause(ErrMongoDeleteFailed, err).
			WithDetail("key", key).
			WithDetail("collection", m.collection.Name())
	}
	return nil
}
