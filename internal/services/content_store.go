package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// ContentStore persists content records. The ownership check on update
// and delete is part of the write itself (a single conditional
// operation), so a record that exists but belongs to someone else is
// indistinguishable from one that does not exist.
type ContentStore interface {
	Create(ctx context.Context, content *models.Content) (*models.Content, error)
	QueryByOwner(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.Content, error)
	UpdateOutputText(ctx context.Context, id, ownerID, newText string) (*models.Content, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// MongoContentStore is the MongoDB-backed ContentStore
type MongoContentStore struct {
	collection *mongo.Collection
}

// NewMongoContentStore creates a content store on the contents collection
func NewMongoContentStore(db *database.MongoDB) *MongoContentStore {
	return &MongoContentStore{
		collection: db.Collection(database.CollectionContents),
	}
}

// Create inserts a new content record, assigning id and timestamps
func (s *MongoContentStore) Create(ctx context.Context, content *models.Content) (*models.Content, error) {
	now := time.Now().UTC()
	content.ID = primitive.NewObjectID()
	content.CreatedAt = now
	content.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, content); err != nil {
		return nil, fmt.Errorf("%w: failed to insert content: %v", ErrStorage, err)
	}

	return content, nil
}

// QueryByOwner returns the owner's records matching the filter, newest first
func (s *MongoContentStore) QueryByOwner(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.Content, error) {
	query := bson.M{"ownerId": ownerID}

	if filter.Kind != "" {
		query["kind"] = filter.Kind
	}
	if filter.Search != "" {
		query["outputText"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.Search),
			"$options": "i",
		}
	}
	if filter.CreatedFrom != nil || filter.CreatedTo != nil {
		createdAt := bson.M{}
		if filter.CreatedFrom != nil {
			createdAt["$gte"] = *filter.CreatedFrom
		}
		if filter.CreatedTo != nil {
			createdAt["$lte"] = *filter.CreatedTo
		}
		query["createdAt"] = createdAt
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query contents: %v", ErrStorage, err)
	}
	defer cursor.Close(ctx)

	contents := []models.Content{}
	if err := cursor.All(ctx, &contents); err != nil {
		return nil, fmt.Errorf("%w: failed to decode contents: %v", ErrStorage, err)
	}

	return contents, nil
}

// UpdateOutputText replaces a record's output text if it belongs to
// ownerID, refreshing updatedAt. Atomic: filter and write are a single
// FindOneAndUpdate.
func (s *MongoContentStore) UpdateOutputText(ctx context.Context, id, ownerID, newText string) (*models.Content, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a record
		return nil, ErrNotFound
	}

	filter := bson.M{"_id": objectID, "ownerId": ownerID}
	update := bson.M{"$set": bson.M{
		"outputText": newText,
		"updatedAt":  time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Content
	err = s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update content: %v", ErrStorage, err)
	}

	return &updated, nil
}

// Delete removes a record if it belongs to ownerID
func (s *MongoContentStore) Delete(ctx context.Context, id, ownerID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID, "ownerId": ownerID})
	if err != nil {
		return fmt.Errorf("%w: failed to delete content: %v", ErrStorage, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
