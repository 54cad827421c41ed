package model

import "time"

// 管理APIのセッション。tokenは不透明な値で、呼び出しごとに期限が延長される。
type AdminSession struct {
	Token     string    `gorm:"primaryKey;type:varchar(64)" json:"token"`
	AdminID   int64     `gorm:"not null;index" json:"admin_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (s AdminSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
