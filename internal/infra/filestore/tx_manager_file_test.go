package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManagerFile_FlushesOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tm := NewTxManagerFile(s)

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		o := model.Order{Code: "SF-000001", Status: model.OrderStatusPending}
		if err := r.Orders().Create(ctx, &o); err != nil {
			return err
		}
		return r.OrderItems().CreateBulk(ctx, o.ID, []model.OrderItem{
			{ProductName: "Basmati Rice 5kg", Quantity: 2, Price: 100, Subtotal: 200},
		})
	})
	require.NoError(t, err)

	// txの外から読み直しても見える
	orders := NewOrderFileRepository(s)
	o, err := orders.FindByCode(ctx, "SF-000001")
	assert.NoError(t, err)

	items, err := NewOrderItemFileRepository(s).ListByOrderID(ctx, o.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, o.ID, items[0].OrderID)
}

// fnが失敗した場合はディスクに何も残らない
func TestTxManagerFile_DiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tm := NewTxManagerFile(s)

	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		o := model.Order{Code: "SF-000001"}
		if err := r.Orders().Create(ctx, &o); err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, o.ID, []model.OrderItem{
			{ProductName: "Basmati Rice 5kg", Quantity: 1, Price: 100, Subtotal: 100},
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewOrderFileRepository(s).FindByCode(ctx, "SF-000001")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// ファイル自体が作られていない
	_, statErr := os.Stat(filepath.Join(s.dir, colOrders))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(s.dir, colOrderItems))
	assert.True(t, os.IsNotExist(statErr))
}

// tx内の読み取りはtx内の書き込みを見る
func TestTxManagerFile_ReadsOwnWrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tm := NewTxManagerFile(s)

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		o := model.Order{Code: "SF-000001"}
		if err := r.Orders().Create(ctx, &o); err != nil {
			return err
		}
		exists, err := r.Orders().CodeExists(ctx, "SF-000001")
		if err != nil {
			return err
		}
		assert.True(t, exists)
		return nil
	})
	assert.NoError(t, err)
}
