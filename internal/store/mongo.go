package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/dirk.krummacker/mini-crm/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore keeps contacts in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a store on top of the given collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Connect opens a client for the URI and verifies that the primary answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique index on the email field. Creating an index that already
// exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return fmt.Errorf("create email_unique index: %w", err)
	}
	return nil
}

// OpenMongoStore makes sure the collection carries the unique email index and returns a store on
// top of it. It fails if the index cannot be created.
func OpenMongoStore(ctx context.Context, coll *mongo.Collection) (*MongoStore, error) {
	if err := EnsureIndexes(ctx, coll); err != nil {
		return nil, err
	}
	return NewMongoStore(coll), nil
}

// List returns all contacts in natural order.
func (s *MongoStore) List(ctx context.Context) ([]model.Contact, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	contacts := []model.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Insert stores a new contact. The contact must already carry its id.
func (s *MongoStore) Insert(ctx context.Context, contact *model.Contact) error {
	_, err := s.coll.InsertOne(ctx, contact)
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{Field: "email", Value: contact.Email, Err: err}
	}
	return err
}

// FindByID returns the contact with the id or ErrNotFound.
func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Contact, error) {
	var contact model.Contact
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Replace overwrites the stored contact that has the same id. It returns ErrNotFound if the
// contact was removed in the meantime.
func (s *MongoStore) Replace(ctx context.Context, contact *model.Contact) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": contact.Id}, contact)
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{Field: "email", Value: contact.Email, Err: err}
	}
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the contact with the id and returns the number of removed documents.
func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
