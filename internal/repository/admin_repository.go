package repository

import (
	"context"

	"app/internal/domain/model"
)

// 管理者はこのサブシステムでは作成しない（外部でプロビジョニング）。
type AdminRepository interface {
	FindByID(ctx context.Context, adminID int64) (model.Admin, error)
	FindByEmail(ctx context.Context, email string) (model.Admin, error)
}
