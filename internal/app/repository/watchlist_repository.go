package repository

import (
	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"gorm.io/gorm"
)

type WatchlistRepository interface {
	Create(item *model.WatchlistItem) error
	FindByUserID(userID uint) ([]model.WatchlistItem, error)
	FindByUserProductSource(userID, productID uint, source string) (*model.WatchlistItem, error)
	Delete(userID, productID uint, source string) (int64, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Create(item *model.WatchlistItem) error {
	logger.Debug("Creating watchlist item in database", map[string]interface{}{
		"user_id":    item.UserID,
		"product_id": item.ProductID,
		"source":     item.Source,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create watchlist item in database", err, map[string]interface{}{
			"user_id":    item.UserID,
			"product_id": item.ProductID,
			"source":     item.Source,
		})
		return err
	}

	logger.Debug("Watchlist item created in database", map[string]interface{}{
		"watchlist_item_id": item.ID,
		"user_id":           item.UserID,
	})
	return nil
}

func (r *watchlistRepository) FindByUserID(userID uint) ([]model.WatchlistItem, error) {
	logger.Debug("Finding watchlist items by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var items []model.WatchlistItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find watchlist items by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Watchlist items found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(items),
	})
	return items, nil
}

func (r *watchlistRepository) FindByUserProductSource(userID, productID uint, source string) (*model.WatchlistItem, error) {
	logger.Debug("Finding watchlist item by user, product and source", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"source":     source,
	})

	var item model.WatchlistItem
	err := r.db.Where("user_id = ? AND product_id = ? AND source = ?", userID, productID, source).
		First(&item).Error
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// Delete removes a watchlist entry and reports how many rows went away,
// so callers can tell a removal from a no-op.
func (r *watchlistRepository) Delete(userID, productID uint, source string) (int64, error) {
	logger.Debug("Deleting watchlist item from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"source":     source,
	})

	result := r.db.Where("user_id = ? AND product_id = ? AND source = ?", userID, productID, source).
		Delete(&model.WatchlistItem{})
	if result.Error != nil {
		logger.Error("Failed to delete watchlist item from database", result.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"source":     source,
		})
		return 0, result.Error
	}

	logger.Debug("Watchlist item deleted from database", map[string]interface{}{
		"user_id":       userID,
		"product_id":    productID,
		"source":        source,
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
