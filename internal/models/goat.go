package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StringList stores an ordered list of free-text tags as a JSON-encoded text
// column, since the health status has no schema of its own.
type StringList []string

// Value implements driver.Valuer so GORM can persist the list.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the list back.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for string list: %T", value)
	}
	return json.Unmarshal(data, s)
}

// Goat represents a livestock record, identified by its RFID tag.
type Goat struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OwnerID      string     `json:"owner" gorm:"index;type:varchar(36)" validate:"required,uuid"`
	// Column pinned: the default naming strategy would split the initialism
	// into rf_id_tag.
	RFIDTag      string     `json:"rfidTag" gorm:"column:rfid_tag;uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	Name         string     `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Gender       string     `json:"gender" gorm:"type:varchar(10)" validate:"required,oneof=Male Female"`
	Breed        string     `json:"breed" gorm:"type:varchar(100)" validate:"required,max=100"`
	BirthDate    string     `json:"birthDate" gorm:"type:varchar(10)" validate:"required,datetime=2006-01-02"`
	Weight       float64    `json:"weight" validate:"gt=0"`
	Height       float64    `json:"height" validate:"gt=0"`
	HealthStatus StringList `json:"healthStatus" gorm:"type:text"`
	SalePrice    float64    `json:"salePrice" validate:"gte=0"`
	ForSale      bool       `json:"forSale"`
	Sold         bool       `json:"sold"`
	AddedAt      time.Time  `json:"addedAt"`
	gorm.Model              // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// GoatUpdate carries the subset of goat fields a marketplace update may touch.
// Pointers distinguish "not provided" from zero values.
type GoatUpdate struct {
	Name         *string     `json:"name" validate:"omitempty,min=1,max=100"`
	Breed        *string     `json:"breed" validate:"omitempty,max=100"`
	Weight       *float64    `json:"weight" validate:"omitempty,gt=0"`
	Height       *float64    `json:"height" validate:"omitempty,gt=0"`
	HealthStatus *StringList `json:"healthStatus"`
	SalePrice    *float64    `json:"salePrice" validate:"omitempty,gte=0"`
	ForSale      *bool       `json:"forSale"`
	Sold         *bool       `json:"sold"`
}

// GoatSummary is a goat annotated with the URL of its first image, used by
// per-owner listings.
type GoatSummary struct {
	Goat
	ImageURL string `json:"imageUrl,omitempty"`
}

// GoatDetail is a single goat with its full image list and a denormalized
// snapshot of the owning farm's public fields.
type GoatDetail struct {
	Goat
	ImageURLs []string     `json:"imageUrls"`
	Owner     *FarmProfile `json:"ownerFarm,omitempty"`
}

// Listing is a marketplace feed entry: a for-sale goat with its first image
// and the selling farm's name and address.
type Listing struct {
	Goat
	ImageURL    string `json:"imageUrl,omitempty"`
	FarmName    string `json:"farmName"`
	FarmAddress string `json:"farmAddress"`
}
