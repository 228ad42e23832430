package repositories

import (
	"fmt"
	"ternak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{
		db: db,
	}
}

// Create creates a new image record in the database.
func (r *GORMImageRepository) Create(image *models.Image) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}
	return nil
}

// GetByGoat retrieves all image records for a goat, ordered by position so
// "first image" is stable across reads.
func (r *GORMImageRepository) GetByGoat(goatID string) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.Where("goat_id = ?", goatID).Order("position ASC").Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to get images for goat %s: %w", goatID, err)
	}
	return images, nil
}

// DeleteByGoat removes all image records referencing a goat. Hard delete:
// replaced image rows have no value as history once their blobs are gone.
func (r *GORMImageRepository) DeleteByGoat(goatID string) error {
	if err := r.db.Unscoped().Where("goat_id = ?", goatID).Delete(&models.Image{}).Error; err != nil {
		return fmt.Errorf("failed to delete images for goat %s: %w", goatID, err)
	}
	return nil
}
