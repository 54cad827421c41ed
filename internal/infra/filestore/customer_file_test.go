package filestore

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerFileRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewCustomerFileRepository(newTestStore(t))

	c := model.Customer{Phone: "01712345678", Name: "Rahim Uddin", Address: "Dhanmondi"}
	require.NoError(t, r.Create(ctx, &c))
	assert.Equal(t, int64(1), c.ID)
	assert.True(t, c.IsActive)

	got, err := r.FindByPhone(ctx, "01712345678")
	assert.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Rahim Uddin", got.Name)

	got, err = r.FindByID(ctx, c.ID)
	assert.NoError(t, err)
	assert.Equal(t, "01712345678", got.Phone)

	_, err = r.FindByPhone(ctx, "01800000000")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCustomerFileRepository_Create_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	r := NewCustomerFileRepository(newTestStore(t))

	require.NoError(t, r.Create(ctx, &model.Customer{Phone: "01712345678", Name: "Rahim Uddin"}))

	err := r.Create(ctx, &model.Customer{Phone: "01712345678", Name: "Other"})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestCustomerFileRepository_UpdateContact(t *testing.T) {
	ctx := context.Background()
	r := NewCustomerFileRepository(newTestStore(t))

	c := model.Customer{Phone: "01712345678", Name: "Rahim Uddin", Address: "Dhanmondi"}
	require.NoError(t, r.Create(ctx, &c))

	// 最新の注文内容で名前・住所を上書きする
	require.NoError(t, r.UpdateContact(ctx, c.ID, "Rahim U.", "Gulshan 2"))

	got, err := r.FindByID(ctx, c.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Rahim U.", got.Name)
	assert.Equal(t, "Gulshan 2", got.Address)
	// 電話番号は変わらない
	assert.Equal(t, "01712345678", got.Phone)

	err = r.UpdateContact(ctx, 999, "x", "y")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
