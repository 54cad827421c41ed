package repository

import (
	"context"
	"time"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	customers  repo.CustomerRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Customers() repo.CustomerRepository   { return r.customers }

type TxManagerGorm struct {
	db  *gorm.DB
	loc *time.Location
}

func NewTxManagerGorm(db *gorm.DB, loc *time.Location) *TxManagerGorm {
	return &TxManagerGorm{db: db, loc: loc}
}

// fnがエラーを返したら全操作がロールバックされる。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx, tm.loc),
			orderItems: NewOrderItemGormRepository(tx),
			customers:  NewCustomerGormRepository(tx),
		}
		return fn(r)
	})
}
