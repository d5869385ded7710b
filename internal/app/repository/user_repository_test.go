package repository

import (
	"testing"

	"github.com/gemcompare/gemcompare-backend/internal/app/model"
	"github.com/gemcompare/gemcompare-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Username:     "testuser",
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
			},
			wantErr: false,
		},
		{
			name: "Duplicate username",
			user: &model.User{
				Username:     "testuser",
				Email:        "other@example.com",
				PasswordHash: "hashedpassword",
			},
			wantErr: true,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Username:     "otheruser",
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByIdentifier(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, repo.Create(user))

	tests := []struct {
		name       string
		identifier string
		wantErr    bool
	}{
		{
			name:       "By username",
			identifier: "alice",
			wantErr:    false,
		},
		{
			name:       "By email",
			identifier: "alice@example.com",
			wantErr:    false,
		},
		{
			name:       "Unknown identifier",
			identifier: "nobody",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByIdentifier(tt.identifier)

			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, user.ID, found.ID)
			}
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, repo.Create(user))

	user.Email = "bob.new@example.com"
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob.new@example.com", found.Email)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Username:     "gone",
		Email:        "gone@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, repo.Create(user))
	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The row is gone from the table, so the username is free again
	again := &model.User{
		Username:     "gone",
		Email:        "gone@example.com",
		PasswordHash: "hashedpassword",
	}
	assert.NoError(t, repo.Create(again))
}

func TestUserRepository_DeleteCascadesWatchlist(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Username:     "cascade",
		Email:        "cascade@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, repo.Create(user))

	product := &model.Product{Name: "Air Cooler", Category: "Appliances"}
	require.NoError(t, testDB.Create(product).Error)

	watchlistRepo := NewWatchlistRepository(testDB)
	require.NoError(t, watchlistRepo.Create(&model.WatchlistItem{
		UserID: user.ID, ProductID: product.ID, Source: model.SourceGeM,
	}))

	require.NoError(t, repo.Delete(user.ID))

	items, err := watchlistRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
