package service

import (
	"errors"
	"strings"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWatchlistDuplicate = errors.New("product and source already in watchlist")
)

// WatchlistEntry is a watchlist row enriched for display: the latest quote
// from the watched source, the best quote from any other source, and
// whether that alternative is strictly cheaper.
type WatchlistEntry struct {
	Item               model.WatchlistItem `json:"item"`
	WatchedPrice       *model.Price        `json:"watched_price,omitempty"`
	Alternative        *model.Price        `json:"alternative,omitempty"`
	AlternativeCheaper bool                `json:"alternative_cheaper"`
}

type WatchlistService interface {
	GetUserWatchlist(userID uint) ([]WatchlistEntry, error)
	AddToWatchlist(userID, productID uint, source string) (*model.WatchlistItem, error)
	RemoveFromWatchlist(userID, productID uint, source string) (bool, error)
}

type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	productRepo   repository.ProductRepository
	priceRepo     repository.PriceRepository
}

func NewWatchlistService(
	watchlistRepo repository.WatchlistRepository,
	productRepo repository.ProductRepository,
	priceRepo repository.PriceRepository,
) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		productRepo:   productRepo,
		priceRepo:     priceRepo,
	}
}

func (s *watchlistService) GetUserWatchlist(userID uint) ([]WatchlistEntry, error) {
	logger.Debug("Fetching user watchlist", map[string]interface{}{
		"user_id": userID,
	})

	items, err := s.watchlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user watchlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	entries := make([]WatchlistEntry, 0, len(items))
	for _, item := range items {
		entry := WatchlistEntry{Item: item}

		watched, err := s.priceRepo.FindLatest(item.ProductID, item.Source)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		entry.WatchedPrice = watched

		alternative, err := s.priceRepo.FindBestAlternative(item.ProductID, item.Source)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		entry.Alternative = alternative

		entry.AlternativeCheaper = isCheaper(alternative, watched)
		entries = append(entries, entry)
	}

	logger.Info("User watchlist fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(entries),
	})
	return entries, nil
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Postgres and SQLite word the message differently, so both are matched.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// isCheaper reports whether the alternative undercuts the watched quote.
// Either quote missing, or carrying no numeric price, means no claim.
func isCheaper(alternative, watched *model.Price) bool {
	if alternative == nil || watched == nil {
		return false
	}
	if alternative.Price == nil || watched.Price == nil {
		return false
	}
	return *alternative.Price < *watched.Price
}

func (s *watchlistService) AddToWatchlist(userID, productID uint, source string) (*model.WatchlistItem, error) {
	logger.Info("Adding item to watchlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"source":     source,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to watchlist: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	existing, err := s.watchlistRepo.FindByUserProductSource(userID, productID, source)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing watchlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Watchlist item already exists", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"source":     source,
		})
		return nil, ErrWatchlistDuplicate
	}

	item := &model.WatchlistItem{
		UserID:    userID,
		ProductID: productID,
		Source:    source,
	}
	if err := s.watchlistRepo.Create(item); err != nil {
		// Two concurrent adds can both pass the lookup above; the unique
		// index catches the loser and it reports a duplicate like any other.
		if isUniqueViolation(err) {
			logger.Warn("Watchlist item already exists", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
				"source":     source,
			})
			return nil, ErrWatchlistDuplicate
		}
		logger.Error("Failed to create watchlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Item added to watchlist", map[string]interface{}{
		"watchlist_item_id": item.ID,
		"user_id":           userID,
	})
	return item, nil
}

// RemoveFromWatchlist deletes an entry and reports whether one was there.
// Removing an absent entry is not an error.
func (s *watchlistService) RemoveFromWatchlist(userID, productID uint, source string) (bool, error) {
	logger.Info("Removing item from watchlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"source":     source,
	})

	rows, err := s.watchlistRepo.Delete(userID, productID, source)
	if err != nil {
		logger.Error("Failed to remove watchlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	removed := rows > 0
	logger.Info("Watchlist removal finished", map[string]interface{}{
		"user_id": userID,
		"removed": removed,
	})
	return removed, nil
}
