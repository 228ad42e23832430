package repositories

import (
	"ternak/internal/models"
)

// ImageRepository defines the interface for image metadata data access.
type ImageRepository interface {
	Create(image *models.Image) error
	GetByGoat(goatID string) ([]models.Image, error)
	DeleteByGoat(goatID string) error
}
