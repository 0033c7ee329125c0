package persistence_test

import (
	"context"
	"testing"

	"github.com/helixml/vectable/domain/product"
	"github.com/helixml/vectable/infrastructure/persistence"
	"github.com/helixml/vectable/internal/database"
	"github.com/helixml/vectable/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVector(seed float32) []float32 {
	v := make([]float32, product.Dimension)
	for i := range v {
		v[i] = seed + float32(i)/1000
	}
	return v
}

func createProduct(t *testing.T, db database.Database, p product.Product) {
	t.Helper()
	err := database.WithSession(context.Background(), db, func(s *database.Session) error {
		_, err := persistence.NewProductStore(s).Create(p)
		return err
	})
	require.NoError(t, err)
}

func TestProductStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	want := product.New(7, "lamp", "a desk lamp", testVector(0.5))

	createProduct(t, db, want)

	got, err := database.WithSessionResult(ctx, db, func(s *database.Session) (product.Product, error) {
		return persistence.NewProductStore(s).Get(7)
	})
	require.NoError(t, err)
	assert.Equal(t, want.ID(), got.ID())
	assert.Equal(t, want.Name(), got.Name())
	assert.Equal(t, want.Description(), got.Description())
	assert.Equal(t, want.Vector(), got.Vector())
	assert.True(t, want.Equal(got))
}

func TestProductStore_NullVector(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	createProduct(t, db, product.New(1, "chair", "oak chair", nil))

	got, err := database.WithSessionResult(ctx, db, func(s *database.Session) (product.Product, error) {
		return persistence.NewProductStore(s).Get(1)
	})
	require.NoError(t, err)
	assert.False(t, got.HasVector())
	assert.Nil(t, got.Vector())
}

func TestProductStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	createProduct(t, db, product.New(1, "first", "first product", testVector(1)))

	err := database.WithSession(ctx, db, func(s *database.Session) error {
		_, err := persistence.NewProductStore(s).Create(product.New(1, "second", "second product", testVector(2)))
		return err
	})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err), "got %v", err)
	assert.True(t, database.IsConstraintViolation(err))

	got, err := database.WithSessionResult(ctx, db, func(s *database.Session) (product.Product, error) {
		return persistence.NewProductStore(s).Get(1)
	})
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name())
}

func TestProductStore_NotNullColumns(t *testing.T) {
	for _, column := range []string{"product_name", "description"} {
		t.Run(column, func(t *testing.T) {
			ctx := context.Background()
			db := testdb.New(t)

			err := database.WithSession(ctx, db, func(s *database.Session) error {
				return s.DB().Omit(column).Create(&persistence.ProductModel{
					ProductID:   1,
					ProductName: "name",
					Description: "description",
					Vector:      database.NullVector(),
				}).Error
			})
			require.Error(t, err)
			assert.True(t, database.IsNotNullViolation(err), "got %v", err)
			assert.False(t, database.IsUniqueViolation(err))
		})
	}
}

func TestProductStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)

	err := database.WithSession(ctx, db, func(s *database.Session) error {
		_, err := persistence.NewProductStore(s).Create(product.New(1, "short", "too few", []float32{1, 2, 3}))
		return err
	})
	require.ErrorIs(t, err, product.ErrDimensionMismatch)

	count, err := database.WithSessionResult(ctx, db, func(s *database.Session) (int64, error) {
		return persistence.NewProductStore(s).Count(persistence.ListFilter{})
	})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProductStore_NotFound(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)

	err := database.WithSession(ctx, db, func(s *database.Session) error {
		store := persistence.NewProductStore(s)

		_, err := store.Get(42)
		assert.ErrorIs(t, err, database.ErrNotFound)

		_, err = store.Update(product.New(42, "ghost", "missing", nil))
		assert.ErrorIs(t, err, database.ErrNotFound)

		assert.ErrorIs(t, store.Delete(42), database.ErrNotFound)

		exists, err := store.Exists(42)
		require.NoError(t, err)
		assert.False(t, exists)
		return nil
	})
	require.NoError(t, err)
}

func TestProductStore_Update(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	createProduct(t, db, product.New(3, "mug", "blue mug", testVector(1)))

	updated := product.New(3, "cup", "red cup", nil)
	err := database.WithSession(ctx, db, func(s *database.Session) error {
		_, err := persistence.NewProductStore(s).Update(updated)
		return err
	})
	require.NoError(t, err)

	got, err := database.WithSessionResult(ctx, db, func(s *database.Session) (product.Product, error) {
		return persistence.NewProductStore(s).Get(3)
	})
	require.NoError(t, err)
	assert.True(t, updated.Equal(got))

	withVector := updated.WithVector(testVector(9))
	err = database.WithSession(ctx, db, func(s *database.Session) error {
		_, err := persistence.NewProductStore(s).Update(withVector)
		return err
	})
	require.NoError(t, err)

	got, err = database.WithSessionResult(ctx, db, func(s *database.Session) (product.Product, error) {
		return persistence.NewProductStore(s).Get(3)
	})
	require.NoError(t, err)
	assert.Equal(t, withVector.Vector(), got.Vector())
}

func TestProductStore_Delete(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	createProduct(t, db, product.New(5, "desk", "standing desk", nil))

	err := database.WithSession(ctx, db, func(s *database.Session) error {
		return persistence.NewProductStore(s).Delete(5)
	})
	require.NoError(t, err)

	exists, err := database.WithSessionResult(ctx, db, func(s *database.Session) (bool, error) {
		return persistence.NewProductStore(s).Exists(5)
	})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductStore_ListAndCount(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	for _, p := range []product.Product{
		product.New(3, "green lamp", "c", nil),
		product.New(1, "red lamp", "a", nil),
		product.New(2, "red chair", "b", nil),
	} {
		createProduct(t, db, p)
	}

	err := database.WithSession(ctx, db, func(s *database.Session) error {
		store := persistence.NewProductStore(s)

		all, err := store.List(persistence.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int32{1, 2, 3}, []int32{all[0].ID(), all[1].ID(), all[2].ID()})

		page, err := store.List(persistence.ListFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, int32(2), page[0].ID())

		lamps, err := store.List(persistence.ListFilter{NameContains: "lamp"})
		require.NoError(t, err)
		assert.Len(t, lamps, 2)

		count, err := store.Count(persistence.ListFilter{NameContains: "red", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		return nil
	})
	require.NoError(t, err)
}

func TestProductStore_UncommittedSessionDiscarded(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)

	s, err := database.OpenSession(ctx, db)
	require.NoError(t, err)
	_, err = persistence.NewProductStore(s).Create(product.New(9, "temp", "never committed", nil))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	exists, err := database.WithSessionResult(ctx, db, func(s *database.Session) (bool, error) {
		return persistence.NewProductStore(s).Exists(9)
	})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)

	require.NoError(t, persistence.EnsureSchema(ctx, db, nil))
	assert.True(t, db.Session(ctx).Migrator().HasTable(persistence.ProductTable))
	assert.True(t, db.Session(ctx).Migrator().HasColumn(&persistence.ProductModel{}, "vector"))
}
