package repositories

import (
	"ternak/internal/models"
)

// GoatRepository defines the interface for goat record data access.
type GoatRepository interface {
	GetByID(id string) (*models.Goat, error)
	GetByTag(rfidTag string) (*models.Goat, error)
	GetByOwner(ownerID string) ([]models.Goat, error)
	GetForSale() ([]models.Goat, error)
	Create(goat *models.Goat) error
	Update(goat *models.Goat) error
	Delete(id string) error
}
