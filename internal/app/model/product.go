package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SpecMap stores free-form product specifications as a JSON column.
type SpecMap map[string]string

func (s SpecMap) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SpecMap) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for SpecMap")
	}
}

type Product struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Category       string    `gorm:"size:100;index" json:"category"`
	Brand          string    `gorm:"size:100" json:"brand"`
	ModelNumber    string    `gorm:"size:100" json:"model_number"`
	BaseImageURL   string    `json:"base_image_url"`
	Specifications SpecMap   `gorm:"type:text" json:"specifications,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Prices []Price `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
