package model

import (
	"time"
)

// WatchlistItem pins a (product, source) pair for a user. Rows are deleted
// outright rather than soft-deleted so the unique index allows re-adding,
// and the database drops them when the owning user or product goes away.
type WatchlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uq_user_product_source,priority:1" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:uq_user_product_source,priority:2" json:"product_id"`
	Source    string    `gorm:"size:50;not null;uniqueIndex:uq_user_product_source,priority:3" json:"source"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations (loaded with Preload)
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (WatchlistItem) TableName() string {
	return "watchlist_items"
}
