package model

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// 遷移テーブル。delivered / cancelled は終端。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// 同一ステータスへの再送はここでは扱わない（呼び出し側でno-op）。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// 支払いステータスは遷移制約なし。
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 顧客向けの注文コード（SF-XXXXXX）。
	Code string `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`

	// 初見の電話番号は自動登録されるのでnull許容。
	CustomerID *int64 `gorm:"index" json:"customer_id"`

	// 注文時点のスナップショット。顧客の後からの編集は過去の注文に反映しない。
	CustomerName    string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerMobile  string `gorm:"type:varchar(32);not null;index" json:"customer_mobile"`
	CustomerAddress string `gorm:"type:text;not null" json:"customer_address"`

	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	DeliveryCharge float64 `gorm:"not null" json:"delivery_charge"`
	Tax            float64 `gorm:"not null" json:"tax"`
	Discount       float64 `gorm:"not null" json:"discount"`
	CouponCode     string  `gorm:"type:varchar(50)" json:"coupon_code"`
	Total          float64 `gorm:"not null" json:"total"`

	PaymentMethod string        `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`

	DeliveryType string `gorm:"type:varchar(50)" json:"delivery_type"`
	DeliveryDate string `gorm:"type:varchar(20)" json:"delivery_date"`
	DeliveryTime string `gorm:"type:varchar(20)" json:"delivery_time"`

	Notes           string `gorm:"type:text" json:"notes"`
	CancelledReason string `gorm:"type:text" json:"cancelled_reason"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Repositoryが付与する。DBカラムではない。
	Items []OrderItem `gorm:"-" json:"items,omitempty"`
}
