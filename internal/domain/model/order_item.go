package model

import "time"

type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	// 商品は後から削除されうるのでnull許容＋スナップショット保持。
	ProductID   *int64 `gorm:"index" json:"product_id"`
	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`

	// 注文時点の単価。生きている商品価格から再計算しない。
	Price    float64 `gorm:"not null" json:"price"`
	Quantity int64   `gorm:"not null" json:"quantity"`
	Subtotal float64 `gorm:"not null" json:"subtotal"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
