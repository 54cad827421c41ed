package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// セッションの保存・取得・延長・削除
type SessionRepository interface {
	Create(ctx context.Context, session *model.AdminSession) error
	FindByToken(ctx context.Context, token string) (model.AdminSession, error)

	// 呼び出しごとのスライディング延長
	Extend(ctx context.Context, token string, until time.Time) error

	Delete(ctx context.Context, token string) error
}
