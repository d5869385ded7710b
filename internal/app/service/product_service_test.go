package service

import (
	"testing"
	"time"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/app/repository"
	"github.com/gemcompare/gemcompare-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService, repository.PriceRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	priceRepo := repository.NewPriceRepository(testDB)
	svc := NewProductService(repository.NewProductRepository(testDB), priceRepo)
	return testDB, svc, priceRepo
}

func TestProductService_ListProducts(t *testing.T) {
	testDB, svc, _ := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{Name: "Air Cooler", Category: "Appliances", Description: "Desert air cooler"},
		{Name: "Mixer Grinder", Category: "Kitchen", Description: "750W mixer"},
		{Name: "Induction Cooktop", Category: "Kitchen", Description: "1800W cooktop"},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}

	all, total, err := svc.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), total)

	kitchen, total, err := svc.ListProducts(ProductListOptions{Category: "Kitchen"})
	require.NoError(t, err)
	assert.Len(t, kitchen, 2)
	assert.Equal(t, int64(2), total)

	found, _, err := svc.ListProducts(ProductListOptions{Search: "mixer"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mixer Grinder", found[0].Product.Name)
}

func TestProductService_ListProducts_Pagination(t *testing.T) {
	testDB, svc, _ := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	names := []string{"Blender", "Chimney", "Dishwasher", "Kettle", "Toaster"}
	for _, name := range names {
		require.NoError(t, testDB.Create(&model.Product{Name: name, Category: "Kitchen"}).Error)
	}

	first, total, err := svc.ListProducts(ProductListOptions{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, first, 2)
	assert.Equal(t, "Blender", first[0].Product.Name)

	third, total, err := svc.ListProducts(ProductListOptions{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, third, 1)
	assert.Equal(t, "Toaster", third[0].Product.Name)
}

func TestProductService_ListProducts_Summaries(t *testing.T) {
	testDB, svc, priceRepo := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	withQuotes := &model.Product{Name: "Water Purifier", Category: "Appliances"}
	bare := &model.Product{Name: "Wet Grinder", Category: "Kitchen"}
	require.NoError(t, testDB.Create(withQuotes).Error)
	require.NoError(t, testDB.Create(bare).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	price := func(v float64) *float64 { return &v }
	require.NoError(t, priceRepo.Create(&model.Price{
		ProductID: withQuotes.ID, Source: model.SourceGeM, Price: price(12500), FetchedAt: base,
	}))
	require.NoError(t, priceRepo.Create(&model.Price{
		ProductID: withQuotes.ID, Source: model.SourceAmazon, Price: price(11900), FetchedAt: base,
	}))

	summaries, _, err := svc.ListProducts(ProductListOptions{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Name order puts the purifier first
	purifier := summaries[0]
	require.NotNil(t, purifier.GeMPrice)
	assert.Equal(t, 12500.0, *purifier.GeMPrice.Price)
	require.NotNil(t, purifier.Alternative)
	assert.Equal(t, model.SourceAmazon, purifier.Alternative.Source)
	assert.True(t, purifier.AlternativeCheaper)

	grinder := summaries[1]
	assert.Nil(t, grinder.GeMPrice)
	assert.Nil(t, grinder.Alternative)
	assert.False(t, grinder.AlternativeCheaper)
}

func TestProductService_GetProductComparison(t *testing.T) {
	testDB, svc, priceRepo := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Ceiling Fan", Category: "Appliances"}
	require.NoError(t, testDB.Create(product).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	price := func(v float64) *float64 { return &v }
	require.NoError(t, priceRepo.Create(&model.Price{
		ProductID: product.ID, Source: model.SourceAmazon, Price: price(1500), FetchedAt: base,
	}))
	require.NoError(t, priceRepo.Create(&model.Price{
		ProductID: product.ID, Source: model.SourceAmazon, Price: price(1450), FetchedAt: base.Add(24 * time.Hour),
	}))
	require.NoError(t, priceRepo.Create(&model.Price{
		ProductID: product.ID, Source: model.SourceGeM, Price: price(1400), FetchedAt: base,
	}))

	comparison, err := svc.GetProductComparison(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, comparison.Product.ID)
	require.Len(t, comparison.Prices, 2)

	// GeM first by priority, and only the newest Amazon quote appears
	assert.Equal(t, model.SourceGeM, comparison.Prices[0].Source)
	assert.Equal(t, model.SourceAmazon, comparison.Prices[1].Source)
	assert.Equal(t, 1450.0, *comparison.Prices[1].Price)
}

func TestProductService_GetProductComparisonNotFound(t *testing.T) {
	testDB, svc, _ := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.GetProductComparison(12345)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetPriceHistory(t *testing.T) {
	testDB, svc, priceRepo := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Geyser", Category: "Appliances"}
	require.NoError(t, testDB.Create(product).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	price := func(v float64) *float64 { return &v }
	for i := 0; i < 4; i++ {
		require.NoError(t, priceRepo.Create(&model.Price{
			ProductID: product.ID,
			Source:    model.SourceFlipkart,
			Price:     price(5000 - float64(i*100)),
			FetchedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	history, err := svc.GetPriceHistory(product.ID, model.SourceFlipkart, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = svc.GetPriceHistory(999, model.SourceFlipkart, 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
