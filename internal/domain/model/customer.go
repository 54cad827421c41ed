package model

import "time"

// 顧客は注文時に電話番号でupsertされる。削除はしない。
type Customer struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 電話番号が自然キー。
	Phone   string `gorm:"type:varchar(32);not null;uniqueIndex" json:"phone"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Address string `gorm:"type:text" json:"address"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
