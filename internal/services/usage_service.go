package services

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// UsageCounter tracks per-user lifetime counts of generated and
// summarized items. Increment runs as a second step after the content
// record is durably created; a crash between the two leaves the
// statistic under-counted, never over-counted.
type UsageCounter interface {
	Increment(ctx context.Context, ownerID string, kind models.ContentKind) error
}

// MongoUsageCounter increments the usageStats counters embedded in the
// users collection
type MongoUsageCounter struct {
	collection *mongo.Collection
}

// NewMongoUsageCounter creates a usage counter on the users collection
func NewMongoUsageCounter(db *database.MongoDB) *MongoUsageCounter {
	return &MongoUsageCounter{
		collection: db.Collection(database.CollectionUsers),
	}
}

// Increment atomically adds 1 to the counter matching kind
func (c *MongoUsageCounter) Increment(ctx context.Context, ownerID string, kind models.ContentKind) error {
	objectID, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return fmt.Errorf("%w: invalid owner id: %v", ErrStorage, err)
	}

	field := "usageStats.summarizedCount"
	if kind == models.KindGenerated {
		field = "usageStats.generatedCount"
	}

	_, err = c.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{field: 1}},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to increment usage counter: %v", ErrStorage, err)
	}

	return nil
}

// MemoryUsageCounter implements UsageCounter in memory for tests and
// no-database development mode
type MemoryUsageCounter struct {
	mu     sync.Mutex
	counts map[string]*models.UsageStats
}

// NewMemoryUsageCounter creates a new in-memory usage counter
func NewMemoryUsageCounter() *MemoryUsageCounter {
	return &MemoryUsageCounter{
		counts: make(map[string]*models.UsageStats),
	}
}

// Increment atomically adds 1 to the counter matching kind
func (c *MemoryUsageCounter) Increment(ctx context.Context, ownerID string, kind models.ContentKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.counts[ownerID]
	if !ok {
		stats = &models.UsageStats{}
		c.counts[ownerID] = stats
	}

	if kind == models.KindGenerated {
		stats.GeneratedCount++
	} else {
		stats.SummarizedCount++
	}

	return nil
}

// Stats returns a copy of the counters for an owner
func (c *MemoryUsageCounter) Stats(ownerID string) models.UsageStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stats, ok := c.counts[ownerID]; ok {
		return *stats
	}
	return models.UsageStats{}
}
