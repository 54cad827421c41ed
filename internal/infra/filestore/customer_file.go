package filestore

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CustomerFileRepository struct {
	s  *Store
	tx *fileTx
}

func NewCustomerFileRepository(s *Store) *CustomerFileRepository {
	return &CustomerFileRepository{s: s}
}

func (r *CustomerFileRepository) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	var out model.Customer
	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.customersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].ID == customerID {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *CustomerFileRepository) FindByPhone(ctx context.Context, phone string) (model.Customer, error) {
	var out model.Customer
	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.customersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Phone == phone {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *CustomerFileRepository) Create(ctx context.Context, customer *model.Customer) error {
	return run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.customersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Phone == customer.Phone {
				return repo.ErrConflict
			}
		}
		d.Seq++
		customer.ID = d.Seq
		now := r.s.now()
		customer.CreatedAt = now
		customer.UpdatedAt = now
		customer.IsActive = true
		d.Rows = append(d.Rows, *customer)
		t.markDirty(colCustomers)
		return nil
	})
}

func (r *CustomerFileRepository) UpdateContact(ctx context.Context, customerID int64, name string, address string) error {
	return run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.customersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].ID == customerID {
				d.Rows[i].Name = name
				d.Rows[i].Address = address
				d.Rows[i].UpdatedAt = r.s.now()
				t.markDirty(colCustomers)
				return nil
			}
		}
		return repo.ErrNotFound
	})
}
