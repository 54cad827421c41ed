package model

import "time"

// 注文ステータス更新、注文の部分更新など。
type AuditAction string

const (
	//注文ステータス（支払いステータス含む）を更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"

	//注文の配送先・メモなどを更新した操作。
	AuditActionUpdateOrder AuditAction = "UPDATE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"

	//顧客に対する操作。
	AuditResourceCustomer AuditResourceType = "customer"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
// 書き込みはbest-effort。失敗しても元の操作は失敗させない。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorAdminID int64 `gorm:"not null;index" json:"actor_admin_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	RequestIP string `gorm:"type:varchar(64)" json:"request_ip"`
	UserAgent string `gorm:"type:varchar(255)" json:"user_agent"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
