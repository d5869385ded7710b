package repository

import (
	"sort"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"gorm.io/gorm"
)

// sourcePriority ranks marketplaces for comparisons. GeM wins over
// Flipkart, Flipkart over Amazon, and unknown sources rank last.
var sourcePriority = map[string]int{
	model.SourceGeM:      3,
	model.SourceFlipkart: 2,
	model.SourceAmazon:   1,
}

type PriceRepository interface {
	Create(price *model.Price) error
	FindLatest(productID uint, source string) (*model.Price, error)
	FindLatestPerSource(productID uint) ([]model.Price, error)
	FindBestAlternative(productID uint, excludeSource string) (*model.Price, error)
	FindHistory(productID uint, source string, limit int) ([]model.Price, error)
}

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) Create(price *model.Price) error {
	logger.Debug("Creating price in database", map[string]interface{}{
		"product_id": price.ProductID,
		"source":     price.Source,
	})

	if err := r.db.Create(price).Error; err != nil {
		logger.Error("Failed to create price in database", err, map[string]interface{}{
			"product_id": price.ProductID,
			"source":     price.Source,
		})
		return err
	}

	return nil
}

// FindLatest returns the newest quote for a (product, source) pair.
// Equal fetch timestamps are broken by the higher row ID.
func (r *priceRepository) FindLatest(productID uint, source string) (*model.Price, error) {
	logger.Debug("Finding latest price in database", map[string]interface{}{
		"product_id": productID,
		"source":     source,
	})

	var price model.Price
	err := r.db.Where("product_id = ? AND source = ?", productID, source).
		Order("fetched_at DESC, id DESC").
		First(&price).Error
	if err != nil {
		return nil, err
	}

	return &price, nil
}

// rankedLatest fetches the newest quote from every source quoting the
// product (minus excludeSource) and orders them by source priority, then
// recency, then row ID. Fetching whole rows keeps the query free of
// aggregate columns, which scan identically on postgres and the sqlite
// test driver.
func (r *priceRepository) rankedLatest(productID uint, excludeSource string) ([]model.Price, error) {
	query := r.db.Model(&model.Price{}).
		Where("product_id = ?", productID).
		Distinct()
	if excludeSource != "" {
		query = query.Where("source <> ?", excludeSource)
	}

	var sources []string
	if err := query.Pluck("source", &sources).Error; err != nil {
		logger.Error("Failed to rank price sources in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	prices := make([]model.Price, 0, len(sources))
	for _, source := range sources {
		price, err := r.FindLatest(productID, source)
		if err != nil {
			return nil, err
		}
		prices = append(prices, *price)
	}

	sort.SliceStable(prices, func(i, j int) bool {
		pi, pj := sourcePriority[prices[i].Source], sourcePriority[prices[j].Source]
		if pi != pj {
			return pi > pj
		}
		if !prices[i].FetchedAt.Equal(prices[j].FetchedAt) {
			return prices[i].FetchedAt.After(prices[j].FetchedAt)
		}
		return prices[i].ID > prices[j].ID
	})
	return prices, nil
}

// FindLatestPerSource returns the newest quote from every source that has
// quoted the product, ordered by source priority then recency.
func (r *priceRepository) FindLatestPerSource(productID uint) ([]model.Price, error) {
	logger.Debug("Finding latest price per source in database", map[string]interface{}{
		"product_id": productID,
	})

	return r.rankedLatest(productID, "")
}

// FindBestAlternative returns the newest quote from the top-ranked source
// other than excludeSource. Priority ties fall to the source fetched most
// recently. Returns gorm.ErrRecordNotFound when no other source has quoted
// the product.
func (r *priceRepository) FindBestAlternative(productID uint, excludeSource string) (*model.Price, error) {
	logger.Debug("Finding best alternative price in database", map[string]interface{}{
		"product_id":     productID,
		"exclude_source": excludeSource,
	})

	prices, err := r.rankedLatest(productID, excludeSource)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &prices[0], nil
}

func (r *priceRepository) FindHistory(productID uint, source string, limit int) ([]model.Price, error) {
	logger.Debug("Finding price history in database", map[string]interface{}{
		"product_id": productID,
		"source":     source,
		"limit":      limit,
	})

	var prices []model.Price
	query := r.db.Where("product_id = ? AND source = ?", productID, source).
		Order("fetched_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&prices).Error; err != nil {
		logger.Error("Failed to find price history in database", err, map[string]interface{}{
			"product_id": productID,
			"source":     source,
		})
		return nil, err
	}

	return prices, nil
}
