package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/label"
)

const (
	mongoDatabase   = "labelforge"
	mongoCollection = "collections"
)

// MongoStore persists collections in MongoDB, one document per named
// collection with the name as _id. Intended for server deployments where
// several instances share state.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the stored shape. The record list is embedded whole; a
// collection is replaced on every save.
type mongoDoc struct {
	Name    string         `bson:"_id"`
	Records []label.Record `bson:"records"`
}

// NewMongoStore connects to MongoDB at uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

// Load reads the named collection. A missing document is an empty
// collection.
func (s *MongoStore) Load(ctx context.Context, name string) (*label.Collection, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return label.NewCollection(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load collection %q", name)
	}
	return &label.Collection{Records: doc.Records}, nil
}

// Save upserts the whole collection document.
func (s *MongoStore) Save(ctx context.Context, name string, col *label.Collection) error {
	doc := mongoDoc{Name: name, Records: col.Records}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save collection %q", name)
	}
	return nil
}

// Delete removes the named collection. Deleting an absent name is a no-op.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete collection %q", name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
