package repositories

import (
	"fmt"
	"strings"
	"ternak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMGoatRepository is a GORM implementation of GoatRepository.
type GORMGoatRepository struct {
	db *gorm.DB
}

// NewGORMGoatRepository creates a new instance of GORMGoatRepository.
func NewGORMGoatRepository(db *gorm.DB) *GORMGoatRepository {
	return &GORMGoatRepository{
		db: db,
	}
}

// GetByID retrieves a single goat by its ID from the database.
func (r *GORMGoatRepository) GetByID(id string) (*models.Goat, error) {
	var goat models.Goat
	if err := r.db.First(&goat, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("goat with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get goat by ID %s: %w", id, err)
	}
	return &goat, nil
}

// GetByTag retrieves a single goat by its RFID tag from the database.
func (r *GORMGoatRepository) GetByTag(rfidTag string) (*models.Goat, error) {
	var goat models.Goat
	rfidTag = strings.TrimSpace(rfidTag)
	if err := r.db.First(&goat, "rfid_tag = ?", rfidTag).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("goat with tag %s not found", rfidTag)
		}
		return nil, fmt.Errorf("failed to get goat by tag %s: %w", rfidTag, err)
	}
	return &goat, nil
}

// GetByOwner retrieves all goats owned by a user, newest first by AddedAt.
func (r *GORMGoatRepository) GetByOwner(ownerID string) ([]models.Goat, error) {
	var goats []models.Goat
	if err := r.db.Where("owner_id = ?", ownerID).Order("added_at DESC").Find(&goats).Error; err != nil {
		return nil, fmt.Errorf("failed to get goats for owner %s: %w", ownerID, err)
	}
	return goats, nil
}

// GetForSale retrieves all goats flagged for sale and not yet sold, newest
// listed first.
func (r *GORMGoatRepository) GetForSale() ([]models.Goat, error) {
	var goats []models.Goat
	if err := r.db.Where("for_sale = ? AND sold = ?", true, false).Order("added_at DESC").Find(&goats).Error; err != nil {
		return nil, fmt.Errorf("failed to get goats for sale: %w", err)
	}
	return goats, nil
}

// Create creates a new goat in the database.
func (r *GORMGoatRepository) Create(goat *models.Goat) error {
	if goat.ID == "" {
		goat.ID = uuid.New().String()
	}
	goat.RFIDTag = strings.TrimSpace(goat.RFIDTag)
	if err := r.db.Create(goat).Error; err != nil {
		return fmt.Errorf("failed to create goat: %w", err)
	}
	return nil
}

// Update updates an existing goat in the database.
func (r *GORMGoatRepository) Update(goat *models.Goat) error {
	goat.RFIDTag = strings.TrimSpace(goat.RFIDTag)
	res := r.db.Save(goat) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update goat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows affected
		// for an update, so we check RowsAffected.
		return fmt.Errorf("goat with ID %s not found for update", goat.ID)
	}
	return nil
}

// Delete deletes a goat by its ID from the database. The delete is hard so
// the RFID tag becomes reusable immediately; a soft-deleted row would keep
// holding the unique tag index.
func (r *GORMGoatRepository) Delete(id string) error {
	res := r.db.Unscoped().Delete(&models.Goat{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete goat: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("goat with ID %s not found for deletion", id)
	}
	return nil
}
