package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/models"
)

// MemoryContentStore implements ContentStore with in-memory storage.
// It mirrors the Mongo store's semantics exactly (ownership scoping,
// NotFound signals, createdAt-descending order) and backs the test
// suite and no-database development mode.
type MemoryContentStore struct {
	mu       sync.RWMutex
	contents map[string]*models.Content
}

// NewMemoryContentStore creates a new in-memory content store
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{
		contents: make(map[string]*models.Content),
	}
}

// Create inserts a new content record, assigning id and timestamps
func (s *MemoryContentStore) Create(ctx context.Context, content *models.Content) (*models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	content.ID = primitive.NewObjectID()
	content.CreatedAt = now
	content.UpdatedAt = now

	// Store a copy to avoid external modifications
	contentCopy := *content
	s.contents[content.ID.Hex()] = &contentCopy

	return content, nil
}

// QueryByOwner returns the owner's records matching the filter, newest first
func (s *MemoryContentStore) QueryByOwner(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []models.Content{}
	for _, content := range s.contents {
		if content.OwnerID != ownerID {
			continue
		}
		if filter.Kind != "" && content.Kind != filter.Kind {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(content.OutputText), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.CreatedFrom != nil && content.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && content.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		results = append(results, *content)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			// Stable tie-break so paging over same-instant records is deterministic
			return results[i].ID.Hex() > results[j].ID.Hex()
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// UpdateOutputText replaces a record's output text if it belongs to ownerID
func (s *MemoryContentStore) UpdateOutputText(ctx context.Context, id, ownerID, newText string) (*models.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, exists := s.contents[id]
	if !exists || content.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	content.OutputText = newText
	content.UpdatedAt = time.Now().UTC()

	contentCopy := *content
	return &contentCopy, nil
}

// Delete removes a record if it belongs to ownerID
func (s *MemoryContentStore) Delete(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, exists := s.contents[id]
	if !exists || content.OwnerID != ownerID {
		return ErrNotFound
	}

	delete(s.contents, id)
	return nil
}
