package service

import (
	"errors"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ProductComparison pairs a product with its latest quote from every
// marketplace that has one, ordered by source priority.
type ProductComparison struct {
	Product model.Product `json:"product"`
	Prices  []model.Price `json:"prices"`
}

// ProductSummary is one row of the browse page: the product, its latest
// GeM quote, and the best quote from any other marketplace.
type ProductSummary struct {
	Product            model.Product `json:"product"`
	GeMPrice           *model.Price  `json:"gem_price,omitempty"`
	Alternative        *model.Price  `json:"alternative,omitempty"`
	AlternativeCheaper bool          `json:"alternative_cheaper"`
}

type ProductListOptions struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]ProductSummary, int64, error)
	GetProductComparison(productID uint) (*ProductComparison, error)
	GetPriceHistory(productID uint, source string, limit int) ([]model.Price, error)
}

type productService struct {
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		priceRepo:   priceRepo,
	}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]ProductSummary, int64, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category": opts.Category,
		"search":   opts.Search,
		"page":     opts.Page,
	})

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}

	products, total, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category: opts.Category,
		Search:   opts.Search,
		Limit:    opts.PageSize,
		Offset:   (opts.Page - 1) * opts.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		summary := ProductSummary{Product: product}

		gemPrice, err := s.priceRepo.FindLatest(product.ID, model.SourceGeM)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
		summary.GeMPrice = gemPrice

		alternative, err := s.priceRepo.FindBestAlternative(product.ID, model.SourceGeM)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
		summary.Alternative = alternative

		summary.AlternativeCheaper = isCheaper(alternative, gemPrice)
		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

func (s *productService) GetProductComparison(productID uint) (*ProductComparison, error) {
	logger.Debug("Fetching product comparison", map[string]interface{}{
		"product_id": productID,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found for comparison", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	prices, err := s.priceRepo.FindLatestPerSource(productID)
	if err != nil {
		logger.Error("Failed to fetch prices for comparison", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	return &ProductComparison{
		Product: *product,
		Prices:  prices,
	}, nil
}

func (s *productService) GetPriceHistory(productID uint, source string, limit int) ([]model.Price, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return s.priceRepo.FindHistory(productID, source, limit)
}
