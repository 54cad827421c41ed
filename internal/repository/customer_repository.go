package repository

import (
	"context"

	"app/internal/domain/model"
)

// 電話番号が自然キー。upsert-by-phoneはusecase側で組み立てる。
type CustomerRepository interface {
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
	FindByPhone(ctx context.Context, phone string) (model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error

	// 既存顧客の名前・住所を最新の注文内容で上書きする
	UpdateContact(ctx context.Context, customerID int64, name string, address string) error
}
