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

type watchlistFixture struct {
	db      *gorm.DB
	svc     WatchlistService
	prices  repository.PriceRepository
	user    *model.User
	product *model.Product
}

func setupWatchlistServiceTest(t *testing.T) *watchlistFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	user := &model.User{Username: "watcher", Email: "watcher@example.com", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{Name: "Water Purifier", Category: "Appliances"}
	require.NoError(t, testDB.Create(product).Error)

	prices := repository.NewPriceRepository(testDB)
	svc := NewWatchlistService(
		repository.NewWatchlistRepository(testDB),
		repository.NewProductRepository(testDB),
		prices,
	)

	return &watchlistFixture{db: testDB, svc: svc, prices: prices, user: user, product: product}
}

func (f *watchlistFixture) addQuote(t *testing.T, source string, price *float64, fetchedAt time.Time) {
	t.Helper()
	require.NoError(t, f.prices.Create(&model.Price{
		ProductID: f.product.ID,
		Source:    source,
		Price:     price,
		Currency:  "INR",
		FetchedAt: fetchedAt,
	}))
}

func TestWatchlistService_Add(t *testing.T) {
	f := setupWatchlistServiceTest(t)
	defer db.CleanupTestDB(f.db)

	item, err := f.svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceGeM)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	_, err = f.svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceGeM)
	assert.ErrorIs(t, err, ErrWatchlistDuplicate)

	_, err = f.svc.AddToWatchlist(f.user.ID, f.product.ID+999, model.SourceGeM)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWatchlistService_Remove(t *testing.T) {
	f := setupWatchlistServiceTest(t)
	defer db.CleanupTestDB(f.db)

	_, err := f.svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceAmazon)
	require.NoError(t, err)

	removed, err := f.svc.RemoveFromWatchlist(f.user.ID, f.product.ID, model.SourceAmazon)
	require.NoError(t, err)
	assert.True(t, removed)

	// Removing again reports nothing removed, without an error
	removed, err = f.svc.RemoveFromWatchlist(f.user.ID, f.product.ID, model.SourceAmazon)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestWatchlistService_RemoveScopedToOwner(t *testing.T) {
	f := setupWatchlistServiceTest(t)
	defer db.CleanupTestDB(f.db)

	other := &model.User{Username: "other", Email: "other@example.com", PasswordHash: "hash"}
	require.NoError(t, f.db.Create(other).Error)

	_, err := f.svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceGeM)
	require.NoError(t, err)

	// Another user cannot remove the owner's entry
	removed, err := f.svc.RemoveFromWatchlist(other.ID, f.product.ID, model.SourceGeM)
	require.NoError(t, err)
	assert.False(t, removed)

	entries, err := f.svc.GetUserWatchlist(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// blindWatchlistRepo never sees existing rows, so the service's duplicate
// lookup passes and the insert itself collides, as two concurrent adds would.
type blindWatchlistRepo struct {
	repository.WatchlistRepository
}

func (r *blindWatchlistRepo) FindByUserProductSource(userID, productID uint, source string) (*model.WatchlistItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestWatchlistService_AddConcurrentDuplicate(t *testing.T) {
	f := setupWatchlistServiceTest(t)
	defer db.CleanupTestDB(f.db)

	svc := NewWatchlistService(
		&blindWatchlistRepo{repository.NewWatchlistRepository(f.db)},
		repository.NewProductRepository(f.db),
		f.prices,
	)

	_, err := svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceGeM)
	require.NoError(t, err)

	// The unique index rejects the second insert; the caller still sees a
	// plain duplicate
	_, err = svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceGeM)
	assert.ErrorIs(t, err, ErrWatchlistDuplicate)
}

func TestWatchlistService_GetUserWatchlistCheaperFlag(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name        string
		watched     string
		setup       func(t *testing.T, f *watchlistFixture)
		wantCheaper bool
		wantAltNil  bool
	}{
		{
			name:    "Alternative strictly cheaper",
			watched: model.SourceGeM,
			setup: func(t *testing.T, f *watchlistFixture) {
				f.addQuote(t, model.SourceGeM, price(3000), base)
				f.addQuote(t, model.SourceFlipkart, price(2500), base)
			},
			wantCheaper: true,
		},
		{
			name:    "Alternative more expensive",
			watched: model.SourceGeM,
			setup: func(t *testing.T, f *watchlistFixture) {
				f.addQuote(t, model.SourceGeM, price(2000), base)
				f.addQuote(t, model.SourceFlipkart, price(2500), base)
			},
			wantCheaper: false,
		},
		{
			name:    "Equal prices are not cheaper",
			watched: model.SourceGeM,
			setup: func(t *testing.T, f *watchlistFixture) {
				f.addQuote(t, model.SourceGeM, price(2000), base)
				f.addQuote(t, model.SourceFlipkart, price(2000), base)
			},
			wantCheaper: false,
		},
		{
			name:    "Alternative has no numeric price",
			watched: model.SourceGeM,
			setup: func(t *testing.T, f *watchlistFixture) {
				f.addQuote(t, model.SourceGeM, price(2000), base)
				f.addQuote(t, model.SourceFlipkart, nil, base)
			},
			wantCheaper: false,
		},
		{
			name:    "Watched source has no quote",
			watched: model.SourceGeM,
			setup: func(t *testing.T, f *watchlistFixture) {
				f.addQuote(t, model.SourceFlipkart, price(2000), base)
			},
			wantCheaper: false,
		},
		{
			name:    "No alternative source at all",
			watched: model.SourceGeM,
			setup: func(t *testing.T, f *watchlistFixture) {
				f.addQuote(t, model.SourceGeM, price(2000), base)
			},
			wantCheaper: false,
			wantAltNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupWatchlistServiceTest(t)
			defer db.CleanupTestDB(f.db)

			tt.setup(t, f)
			_, err := f.svc.AddToWatchlist(f.user.ID, f.product.ID, tt.watched)
			require.NoError(t, err)

			entries, err := f.svc.GetUserWatchlist(f.user.ID)
			require.NoError(t, err)
			require.Len(t, entries, 1)

			assert.Equal(t, tt.wantCheaper, entries[0].AlternativeCheaper)
			if tt.wantAltNil {
				assert.Nil(t, entries[0].Alternative)
			}
		})
	}
}

func TestWatchlistService_GetUserWatchlistPicksPriorityAlternative(t *testing.T) {
	f := setupWatchlistServiceTest(t)
	defer db.CleanupTestDB(f.db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	price := func(v float64) *float64 { return &v }

	// Watching GeM; Amazon is newer but Flipkart outranks it
	f.addQuote(t, model.SourceGeM, price(3000), base)
	f.addQuote(t, model.SourceAmazon, price(2400), base.Add(24*time.Hour))
	f.addQuote(t, model.SourceFlipkart, price(2600), base)

	_, err := f.svc.AddToWatchlist(f.user.ID, f.product.ID, model.SourceGeM)
	require.NoError(t, err)

	entries, err := f.svc.GetUserWatchlist(f.user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NotNil(t, entries[0].Alternative)
	assert.Equal(t, model.SourceFlipkart, entries[0].Alternative.Source)
	assert.True(t, entries[0].AlternativeCheaper)
}
