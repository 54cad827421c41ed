package filestore

import (
	"context"

	repo "app/internal/repository"
)

type txReposFile struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	customers  repo.CustomerRepository
}

func (r *txReposFile) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposFile) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposFile) Customers() repo.CustomerRepository   { return r.customers }

type TxManagerFile struct {
	s *Store
}

func NewTxManagerFile(s *Store) *TxManagerFile {
	return &TxManagerFile{s: s}
}

// 全操作をメモリ上のコピーに適用し、fnが成功した場合だけ
// ファイルへ書き戻す。途中で失敗したらディスクには何も残らない。
func (tm *TxManagerFile) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.s.mu.Lock()
	defer tm.s.mu.Unlock()

	t := newFileTx(tm.s)
	r := &txReposFile{
		orders:     &OrderFileRepository{s: tm.s, tx: t},
		orderItems: &OrderItemFileRepository{s: tm.s, tx: t},
		customers:  &CustomerFileRepository{s: tm.s, tx: t},
	}
	if err := fn(r); err != nil {
		return err
	}
	return t.flush()
}
