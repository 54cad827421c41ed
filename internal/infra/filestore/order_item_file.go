package filestore

import (
	"context"
	"sort"

	"app/internal/domain/model"
)

type OrderItemFileRepository struct {
	s  *Store
	tx *fileTx
}

func NewOrderItemFileRepository(s *Store) *OrderItemFileRepository {
	return &OrderItemFileRepository{s: s}
}

func (r *OrderItemFileRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.orderItemsDoc()
		if err != nil {
			return err
		}
		now := r.s.now()
		for i := range items {
			d.Seq++
			items[i].ID = d.Seq
			items[i].OrderID = orderID
			items[i].CreatedAt = now
			d.Rows = append(d.Rows, items[i])
		}
		t.markDirty(colOrderItems)
		return nil
	})
}

func (r *OrderItemFileRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.orderItemsDoc()
		if err != nil {
			return err
		}
		for _, it := range d.Rows {
			if it.OrderID == orderID {
				out = append(out, it)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
