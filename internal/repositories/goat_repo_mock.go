package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"ternak/internal/models"

	"github.com/google/uuid"
)

// MockGoatRepository is an in-memory implementation of GoatRepository.
type MockGoatRepository struct {
	goats map[string]models.Goat
	mu    sync.RWMutex
}

// NewMockGoatRepository creates a new instance of MockGoatRepository.
func NewMockGoatRepository() *MockGoatRepository {
	return &MockGoatRepository{
		goats: make(map[string]models.Goat),
	}
}

// GetByID returns a goat by its ID.
func (r *MockGoatRepository) GetByID(id string) (*models.Goat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goat, ok := r.goats[id]
	if !ok {
		return nil, fmt.Errorf("goat with ID %s not found", id)
	}
	return &goat, nil
}

// GetByTag returns a goat by its RFID tag.
func (r *MockGoatRepository) GetByTag(rfidTag string) (*models.Goat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rfidTag = strings.TrimSpace(rfidTag)
	for _, g := range r.goats {
		if g.RFIDTag == rfidTag {
			goat := g
			return &goat, nil
		}
	}
	return nil, fmt.Errorf("goat with tag %s not found", rfidTag)
}

// GetByOwner returns all goats for an owner, newest first by AddedAt.
func (r *MockGoatRepository) GetByOwner(ownerID string) ([]models.Goat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goatList := make([]models.Goat, 0)
	for _, g := range r.goats {
		if g.OwnerID == ownerID {
			goatList = append(goatList, g)
		}
	}
	sort.Slice(goatList, func(i, j int) bool {
		return goatList[i].AddedAt.After(goatList[j].AddedAt)
	})
	return goatList, nil
}

// GetForSale returns all goats flagged for sale and not sold, newest first.
func (r *MockGoatRepository) GetForSale() ([]models.Goat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goatList := make([]models.Goat, 0)
	for _, g := range r.goats {
		if g.ForSale && !g.Sold {
			goatList = append(goatList, g)
		}
	}
	sort.Slice(goatList, func(i, j int) bool {
		return goatList[i].AddedAt.After(goatList[j].AddedAt)
	})
	return goatList, nil
}

// Create adds a new goat.
func (r *MockGoatRepository) Create(goat *models.Goat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if goat.ID == "" {
		goat.ID = uuid.New().String()
	}
	goat.RFIDTag = strings.TrimSpace(goat.RFIDTag)
	r.goats[goat.ID] = *goat
	return nil
}

// Update modifies an existing goat.
func (r *MockGoatRepository) Update(goat *models.Goat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goats[goat.ID]; !ok {
		return fmt.Errorf("goat with ID %s not found for update", goat.ID)
	}
	goat.RFIDTag = strings.TrimSpace(goat.RFIDTag)
	r.goats[goat.ID] = *goat
	return nil
}

// Delete removes a goat by its ID.
func (r *MockGoatRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goats[id]; !ok {
		return fmt.Errorf("goat with ID %s not found for deletion", id)
	}
	delete(r.goats, id)
	return nil
}
