package repository

import (
	"context"

	"app/internal/domain/model"
)

// 明細は注文と同時に作られ、その後変更されない。
type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
