package repository_test

import (
	"context"
	"testing"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/repository"
	"go-bookkeeping-ws/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContactRepo_SearchAndExists(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewContactRepo(db)

	for _, c := range []model.Contact{
		{Name: "Andi Wijaya", Phone: "0811"},
		{Name: "Siti Rahma", Phone: "0812"},
		{Name: "Andika", Phone: "0813"},
	} {
		contact := c
		require.NoError(t, repo.Create(ctx, &contact))
	}

	rows, total, err := repo.FindPaginated(ctx, model.PageQuery{Page: 1, Limit: 10, Search: "ANDI"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.FindPaginated(ctx, model.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 1)

	found, err := repo.FindByNamePhone(ctx, "Siti Rahma", "0812")
	require.NoError(t, err)

	ok, err := repo.Exists(db, found.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(db, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Delete(ctx, found.ID))
	assert.ErrorIs(t, repo.Delete(ctx, found.ID), gorm.ErrRecordNotFound)
}

func TestItemRepo_FilterByBrand(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	a := testutil.CreateItem(t, db, "Apple", "iPhone 15")
	testutil.CreateItem(t, db, "Samsung", "Galaxy A55")
	repo := repository.NewItemRepo(db)

	rows, total, err := repo.FindPaginated(ctx, model.PageQuery{Page: 1, Limit: 10}, &a.BrandID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Brand)
	assert.Equal(t, "Apple iPhone 15 8/128GB", rows[0].DisplayName)

	rows, _, err = repo.FindPaginated(ctx, model.PageQuery{Page: 1, Limit: 10, Search: "galaxy"}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Galaxy A55", rows[0].ModelName)
}

func TestBrandRepo_FindByNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewBrandRepo(db)
	require.NoError(t, repo.Create(ctx, &model.Brand{Name: "Xiaomi"}))

	b, err := repo.FindByName(ctx, "xiaomi")
	require.NoError(t, err)
	assert.Equal(t, "Xiaomi", b.Name)

	_, err = repo.FindByName(ctx, "Nokia")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Create(ctx, &model.Brand{Name: "Xiaomi"}), gorm.ErrDuplicatedKey)
}
