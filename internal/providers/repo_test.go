package providers

import (
	"context"
	"testing"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newProviderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:providers_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE providers (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  specialty TEXT,
  active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func TestProviderExistsOnlyWhenActive(t *testing.T) {
	t.Parallel()

	db := newProviderTestDB(t)
	repo := NewRepository(db)

	provider := &models.Provider{ID: uuid.New(), FullName: "Dr. Reyes", Active: true}
	require.NoError(t, repo.Create(context.Background(), provider))

	exists, err := repo.Exists(context.Background(), provider.ID)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.SetActive(context.Background(), provider.ID, false))

	exists, err = repo.Exists(context.Background(), provider.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestProviderListActive(t *testing.T) {
	t.Parallel()

	db := newProviderTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.Create(context.Background(), &models.Provider{ID: uuid.New(), FullName: "Dr. Beltran", Active: true}))
	require.NoError(t, repo.Create(context.Background(), &models.Provider{ID: uuid.New(), FullName: "Dr. Alva", Active: true}))
	require.NoError(t, repo.Create(context.Background(), &models.Provider{ID: uuid.New(), FullName: "Dr. Zapata", Active: false}))

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "Dr. Alva", active[0].FullName)
}

func TestProviderSetActiveMissing(t *testing.T) {
	t.Parallel()

	db := newProviderTestDB(t)
	repo := NewRepository(db)
	require.Error(t, repo.SetActive(context.Background(), uuid.New(), true))
}
