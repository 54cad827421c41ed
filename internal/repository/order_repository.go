package repository

import (
	"context"
	"strings"
	"time"

	"app/internal/domain/model"
)

// 注文一覧の絞り込み条件。日付はYYYY-MM-DD（作成日の日付部分、両端含む）。
type OrderListFilter struct {
	Status        string
	PaymentStatus string
	FromDate      string
	ToDate        string
	Today         bool

	// 注文コード・顧客名・電話番号の部分一致（大文字小文字を無視）
	Search string

	// "field direction"。許可外は created_at desc に落とす。
	Sort string

	Page  int
	Limit int
}

// page/limitをクランプする。limitは[1,100]、既定20。
func (f *OrderListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// sort指定の許可リスト。許可外は黙ってcreated_at descに落とす。
func NormalizeOrderSort(sort string) (field string, desc bool) {
	switch strings.ToLower(strings.Join(strings.Fields(sort), " ")) {
	case "created_at asc":
		return "created_at", false
	case "created_at desc":
		return "created_at", true
	case "total asc":
		return "total", false
	case "total desc":
		return "total", true
	case "id asc":
		return "id", false
	case "id desc":
		return "id", true
	default:
		return "created_at", true
	}
}

// statusとpayment_statusはここに含めない（Status Engine経由のみ）。
type OrderPatch struct {
	CustomerName    *string
	CustomerMobile  *string
	CustomerAddress *string
	DeliveryType    *string
	DeliveryDate    *string
	DeliveryTime    *string
	Notes           *string
	PaymentMethod   *string
	CouponCode      *string
}

func (p OrderPatch) Empty() bool {
	return p.CustomerName == nil && p.CustomerMobile == nil && p.CustomerAddress == nil &&
		p.DeliveryType == nil && p.DeliveryDate == nil && p.DeliveryTime == nil &&
		p.Notes == nil && p.PaymentMethod == nil && p.CouponCode == nil
}

// Status Engineだけが使うステータス書き込み。
type StatusUpdate struct {
	Status          *model.OrderStatus
	PaymentStatus   *model.PaymentStatus
	Notes           *string
	CancelledReason *string
	CancelledAt     *time.Time
}

type OrderRepository interface {
	// IDを採番して返す
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByCode(ctx context.Context, code string) (model.Order, error)

	// 注文コードの衝突チェック（ファイル実装は一意制約を持たないため必須）
	CodeExists(ctx context.Context, code string) (bool, error)

	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	// 許可リストの項目だけの部分更新
	Update(ctx context.Context, orderID int64, p OrderPatch) error

	// status/payment_statusの唯一の書き込み経路
	ApplyStatus(ctx context.Context, orderID int64, u StatusUpdate) error
}
