package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/shared"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestNewGormProductRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "version"}).
			AddRow(productID, "Keyboard", "Mechanical keyboard", decimal.NewFromFloat(79.99), 10, 1)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Keyboard", product.Name)
		assert.Equal(t, 10, product.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByName(t *testing.T) {
	t.Run("finds product by exact name", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "version"}).
			AddRow(productID, "Keyboard", decimal.NewFromFloat(79.99), 10, 1)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Keyboard", 1).
			WillReturnRows(rows)

		product, err := repo.FindByName(context.Background(), "Keyboard")

		assert.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown name", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByName(context.Background(), "Ghost")

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	t.Run("empty id list short-circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		products, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loads products for ids", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		a := uuid.New()
		b := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "version"}).
			AddRow(a, "Keyboard", decimal.NewFromFloat(79.99), 10, 1).
			AddRow(b, "Mouse", decimal.NewFromFloat(29.99), 4, 1)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN \(\$1,\$2\)`).
			WithArgs(a, b).
			WillReturnRows(rows)

		products, err := repo.FindByIDs(context.Background(), []uuid.UUID{a, b})

		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindAll_Search(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "version"}).
		AddRow(uuid.New(), "Keyboard", decimal.NewFromFloat(79.99), 10, 1)

	// Search is a case-insensitive prefix match on the name
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE LOWER\(name\) LIKE \$1 ORDER BY name ASC`).
		WithArgs("key%").
		WillReturnRows(rows)

	products, err := repo.FindAll(context.Background(), shared.Filter{Search: "Key"})

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Keyboard", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_ExistsByName(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE name = \$1`).
		WithArgs("Keyboard").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByName(context.Background(), "Keyboard")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), productID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, shared.ErrNotFound, repo.Delete(context.Background(), productID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
