package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 管理者向けの監査ログ閲覧。書き込みはAuditSink経由のみ。
type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	out, err := u.logs.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out == nil {
		out = []model.AuditLog{}
	}
	return out, nil
}
