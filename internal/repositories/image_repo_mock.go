package repositories

import (
	"sort"
	"sync"
	"ternak/internal/models"

	"github.com/google/uuid"
)

// MockImageRepository is an in-memory implementation of ImageRepository.
type MockImageRepository struct {
	images map[string]models.Image
	mu     sync.RWMutex
}

// NewMockImageRepository creates a new instance of MockImageRepository.
func NewMockImageRepository() *MockImageRepository {
	return &MockImageRepository{
		images: make(map[string]models.Image),
	}
}

// Create adds a new image record.
func (r *MockImageRepository) Create(image *models.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images[image.ID] = *image
	return nil
}

// GetByGoat returns all image records for a goat, ordered by position.
func (r *MockImageRepository) GetByGoat(goatID string) ([]models.Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	imageList := make([]models.Image, 0)
	for _, img := range r.images {
		if img.GoatID != nil && *img.GoatID == goatID {
			imageList = append(imageList, img)
		}
	}
	sort.Slice(imageList, func(i, j int) bool {
		return imageList[i].Position < imageList[j].Position
	})
	return imageList, nil
}

// DeleteByGoat removes all image records referencing a goat.
func (r *MockImageRepository) DeleteByGoat(goatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, img := range r.images {
		if img.GoatID != nil && *img.GoatID == goatID {
			delete(r.images, id)
		}
	}
	return nil
}
