package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AdminGormRepository struct {
	db *gorm.DB
}

func NewAdminGormRepository(db *gorm.DB) *AdminGormRepository {
	return &AdminGormRepository{db: db}
}

func (r *AdminGormRepository) FindByID(ctx context.Context, adminID int64) (model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("id = ?", adminID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Admin{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}

func (r *AdminGormRepository) FindByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Admin{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Admin{}, err
	}
	return a, nil
}
