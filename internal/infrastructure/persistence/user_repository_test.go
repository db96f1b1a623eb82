package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&identity.User{})
	require.NoError(t, err)

	return db
}

func TestGormUserRepository(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	t.Run("saves and finds by email", func(t *testing.T) {
		user, err := identity.NewUser("Alice", "Alice@Example.com", "password1")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, user))

		found, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, identity.RoleRegular, found.Role)
	})

	t.Run("email lookup normalizes case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ALICE@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Email)
	})

	t.Run("unknown email returns not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete removes the user", func(t *testing.T) {
		user, err := identity.NewUser("Bob", "bob@example.com", "password1")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, user))

		require.NoError(t, repo.Delete(ctx, user.ID))
		_, err = repo.FindByID(ctx, user.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
