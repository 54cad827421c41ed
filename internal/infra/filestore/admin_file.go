package filestore

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminFileRepository struct {
	s *Store
}

func NewAdminFileRepository(s *Store) *AdminFileRepository {
	return &AdminFileRepository{s: s}
}

func (r *AdminFileRepository) FindByID(ctx context.Context, adminID int64) (model.Admin, error) {
	var out model.Admin
	err := run(r.s, nil, func(t *fileTx) error {
		d, err := t.adminsDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].ID == adminID {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *AdminFileRepository) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	var out model.Admin
	err := run(r.s, nil, func(t *fileTx) error {
		d, err := t.adminsDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Email == email {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}
