package model

import (
	"time"
)

// Marketplace sources. Priority for comparisons runs GeM > Flipkart > Amazon.
const (
	SourceGeM      = "GeM"
	SourceAmazon   = "Amazon"
	SourceFlipkart = "Flipkart"
)

// Price is a point-in-time marketplace quote for a product. A nil Price
// means the listing existed but no numeric price could be extracted.
type Price struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"not null;index:idx_product_source_fetched,priority:1" json:"product_id"`
	Source      string    `gorm:"size:50;not null;index:idx_product_source_fetched,priority:2" json:"source"`
	Price       *float64  `json:"price"`
	Currency    string    `gorm:"size:10;default:'INR'" json:"currency"`
	ProductURL  string    `json:"product_url"`
	SellerName  string    `gorm:"size:100" json:"seller_name"`
	IsAvailable *bool     `json:"is_available"`
	Rating      *float64  `json:"rating"`
	RatingCount *uint     `json:"rating_count"`
	FetchedAt   time.Time `gorm:"not null;index:idx_product_source_fetched,priority:3" json:"fetched_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Price) TableName() string {
	return "prices"
}
