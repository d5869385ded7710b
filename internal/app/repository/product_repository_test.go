package repository

import (
	"testing"
	"time"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_CreateAndFindByID(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewProductRepository(testDB)
	product := &model.Product{
		Name:         "WD 2TB Elements Portable External Hard Drive",
		Description:  "USB 3.0 portable drive.",
		Category:     "electronics",
		Brand:        "Western Digital",
		ModelNumber:  "WDBU6Y0020BBK",
		BaseImageURL: "https://example.com/img/wd-elements.jpg",
		Specifications: model.SpecMap{
			"capacity": "2TB",
		},
	}
	require.NoError(t, repo.Create(product))
	require.NotZero(t, product.ID)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Western Digital", found.Brand)
	assert.Equal(t, "WDBU6Y0020BBK", found.ModelNumber)
	assert.Equal(t, "https://example.com/img/wd-elements.jpg", found.BaseImageURL)
	assert.Equal(t, "2TB", found.Specifications["capacity"])
}

func TestProductRepository_PriceSellerNamePersists(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	productRepo := NewProductRepository(testDB)
	product := &model.Product{Name: "Acer SB220Q Monitor", Category: "electronics"}
	require.NoError(t, productRepo.Create(product))

	priceRepo := NewPriceRepository(testDB)
	amount := 47800.0
	require.NoError(t, priceRepo.Create(&model.Price{
		ProductID:  product.ID,
		Source:     model.SourceAmazon,
		SellerName: "Appario Retail",
		Price:      &amount,
		Currency:   "INR",
		FetchedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}))

	latest, err := priceRepo.FindLatest(product.ID, model.SourceAmazon)
	require.NoError(t, err)
	assert.Equal(t, "Appario Retail", latest.SellerName)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewProductRepository(testDB)
	for _, p := range []model.Product{
		{Name: "Ceiling Fan", Category: "appliances"},
		{Name: "Table Fan", Category: "appliances"},
		{Name: "Office Chair", Category: "furniture"},
	} {
		product := p
		require.NoError(t, repo.Create(&product))
	}

	products, total, err := repo.FindWithFilter(ProductFilter{Category: "appliances"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 2)
	// Name ascending
	assert.Equal(t, "Ceiling Fan", products[0].Name)

	products, total, err = repo.FindWithFilter(ProductFilter{Search: "Chair"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Office Chair", products[0].Name)

	products, total, err = repo.FindWithFilter(ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Table Fan", products[0].Name)
}
