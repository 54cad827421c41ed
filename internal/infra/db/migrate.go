package db

import (
	"log"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

// 古いデプロイのordersテーブルに後から増えた列。
// 起動時に一度だけ存在を確認し、無ければnullableで足す。
var orderCompatColumns = []string{
	"coupon_code",
	"delivery_type",
	"delivery_date",
	"delivery_time",
	"notes",
	"cancelled_reason",
	"cancelled_at",
}

// Migrate はベーステーブルを作る。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.Admin{},
		&model.AdminSession{},
		&model.AuditLog{},
	)
}

// EnsureOrderSchema は注文書き込みが前提にする列を起動時に揃える。
// 冪等。既にある列は何もしない。リクエスト経路では呼ばない。
func EnsureOrderSchema(gdb *gorm.DB) error {
	m := gdb.Migrator()
	for _, col := range orderCompatColumns {
		if m.HasColumn(&model.Order{}, col) {
			continue
		}
		if err := m.AddColumn(&model.Order{}, col); err != nil {
			return err
		}
		log.Printf("schema: added orders.%s", col)
	}
	return nil
}
