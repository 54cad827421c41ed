package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SessionGormRepository struct {
	db *gorm.DB
}

func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

func (r *SessionGormRepository) Create(ctx context.Context, session *model.AdminSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionGormRepository) FindByToken(ctx context.Context, token string) (model.AdminSession, error) {
	var s model.AdminSession
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.AdminSession{}, repo.ErrNotFound
	}
	if err != nil {
		return model.AdminSession{}, err
	}
	return s, nil
}

func (r *SessionGormRepository) Extend(ctx context.Context, token string, until time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.AdminSession{}).
		Where("token = ?", token).
		Update("expires_at", until)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SessionGormRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.AdminSession{}).Error
}
