package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a farm account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required"` // No json tag for security
	FarmName   string `json:"farmName" gorm:"type:varchar(255)" validate:"required,max=255"`
	Address    string `json:"address" gorm:"type:varchar(500)" validate:"required,max=500"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FarmProfile is the public projection of a User. The password hash is never
// part of this shape, so it is safe to return from any public endpoint.
type FarmProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FarmName  string    `json:"farmName"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfile converts a User into its public FarmProfile shape.
func (u *User) PublicProfile() FarmProfile {
	return FarmProfile{
		ID:        u.ID,
		Email:     u.Email,
		FarmName:  u.FarmName,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}
