package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/product/repository"
	"github.com/tair/reclaimed-storefront/internal/testutil"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	for _, model := range domain.Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}

	// idempotent
	require.NoError(t, repository.Migrate(db))
}

func TestProductRepositoryListPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormProductRepository(db)
	ctx := context.Background()

	created := testutil.CreateTestProducts(db, 5)

	seen := map[string]bool{}
	var order []string
	for offset := 0; offset < 6; offset += 2 {
		page, err := repo.List(ctx, domain.ListFilter{Offset: offset, Limit: 2})
		require.NoError(t, err)
		for _, p := range page {
			assert.False(t, seen[p.ID], "product %s listed twice", p.ID)
			seen[p.ID] = true
			order = append(order, p.ID)
		}
	}

	require.Len(t, order, 5)
	// newest first
	for i, id := range order {
		assert.Equal(t, created[len(created)-1-i].ID, id)
	}

	empty, err := repo.List(ctx, domain.ListFilter{Offset: 100, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductRepositorySearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormProductRepository(db)
	ctx := context.Background()

	testutil.CreateTestProduct(db, testutil.WithName("Oak Door"), testutil.WithMaterial("Wood"))
	testutil.CreateTestProduct(db, testutil.WithName("Window"), testutil.WithMaterial("oak"))
	testutil.CreateTestProduct(db, testutil.WithName("Steel Beam"), testutil.WithMaterial("Steel"))
	testutil.CreateTestProduct(db, testutil.WithName("100% Brick"), testutil.WithMaterial("Clay"))

	tests := []struct {
		search string
		want   int64
	}{
		{"", 4},
		{"OAK", 2},
		{"oak", 2},
		{"steel", 1},
		{"%", 1},
		{"_", 0},
		{"glass", 0},
		{" beam", 1},
		{"  ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			count, err := repo.Count(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)

			products, err := repo.List(ctx, domain.ListFilter{Search: tt.search, Limit: 10})
			require.NoError(t, err)
			assert.Len(t, products, int(tt.want))
		})
	}
}

func TestProductRepositoryFeaturedAndAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormProductRepository(db)
	ctx := context.Background()

	testutil.CreateTestProduct(db, testutil.WithFeatured())
	testutil.CreateTestProduct(db, testutil.WithFeatured())
	testutil.CreateTestProduct(db)

	featured, err := repo.FindFeatured(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	limited, err := repo.FindFeatured(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepositoryFindUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormProductRepository(db)
	ctx := context.Background()

	product := testutil.CreateTestProduct(db, testutil.WithImage("users/u1/door.jpg"))
	testutil.CreateTestFavorite(db, "user_1", product.ID)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, found.Name)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	found.Price = 0
	found.Featured = true
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Price)
	assert.True(t, updated.Featured)
	assert.Equal(t, product.ClerkID, updated.ClerkID)

	err = repo.Update(ctx, &domain.Product{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	deleted, err := repo.Delete(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "users/u1/door.jpg", deleted.Image)

	var favorites int64
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&favorites).Error)
	assert.Zero(t, favorites)

	_, err = repo.Delete(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFavoriteRepositoryToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormFavoriteRepository(db)
	ctx := context.Background()

	product := testutil.CreateTestProduct(db)

	added, err := repo.Toggle(ctx, "user_1", product.ID)
	require.NoError(t, err)
	require.NotNil(t, added)

	ids, err := repo.FindIDsByProducts(ctx, "user_1", []string{product.ID})
	require.NoError(t, err)
	assert.Equal(t, *added, ids[product.ID])

	removed, err := repo.Toggle(ctx, "user_1", product.ID)
	require.NoError(t, err)
	assert.Nil(t, removed)

	ids, err = repo.FindIDsByProducts(ctx, "user_1", []string{product.ID})
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repo.Toggle(ctx, "user_1", "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFavoriteRepositoryToggleParity(t *testing.T) {
	for _, n := range []int{10, 11} {
		db := testutil.SetupTestDB(t)
		repo := repository.NewGormFavoriteRepository(db)
		product := testutil.CreateTestProduct(db)

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Toggle(context.Background(), "user_1", product.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		var count int64
		require.NoError(t, db.Model(&domain.Favorite{}).
			Where("clerk_id = ? AND product_id = ?", "user_1", product.ID).
			Count(&count).Error)
		assert.Equal(t, int64(n%2), count, "after %d toggles", n)
	}
}

func TestFavoriteRepositoryScopedToViewer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormFavoriteRepository(db)
	ctx := context.Background()

	p1 := testutil.CreateTestProduct(db)
	p2 := testutil.CreateTestProduct(db)
	f1 := testutil.CreateTestFavorite(db, "user_1", p1.ID)
	testutil.CreateTestFavorite(db, "user_2", p2.ID)

	ids, err := repo.FindIDsByProducts(ctx, "user_1", []string{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{p1.ID: f1.ID}, ids)

	ids, err = repo.FindIDsByProducts(ctx, "", []string{p1.ID})
	require.NoError(t, err)
	assert.Empty(t, ids)

	favorites, err := repo.FindByViewer(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	require.NotNil(t, favorites[0].Product)
	assert.Equal(t, p1.Name, favorites[0].Product.Name)
}

func TestTracingRepositoriesDelegate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	products := repository.NewTracingProductRepository(repository.NewGormProductRepository(db))
	favorites := repository.NewTracingFavoriteRepository(repository.NewGormFavoriteRepository(db))
	ctx := context.Background()

	product := &domain.Product{Name: "Radiator", Material: "Cast iron", ClerkID: "user_admin", Quantity: 1}
	require.NoError(t, products.Create(ctx, product))
	assert.NotEmpty(t, product.ID)

	count, err := products.Count(ctx, "iron")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	id, err := favorites.Toggle(ctx, "user_1", product.ID)
	require.NoError(t, err)
	assert.NotNil(t, id)

	_, err = products.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
