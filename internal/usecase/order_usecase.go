package usecase

import (
	"context"
	"crypto/rand"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

const (
	orderCodePrefix   = "SF-"
	orderCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// コード衝突時の再生成回数
	maxCodeAttempts = 5
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	now       func() time.Time
}

func NewOrderUsecase(tx repo.TransactionManager, customers repo.CustomerRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, customers: customers, now: time.Now}
}

type OrderLineInput struct {
	ProductID   *int64
	ProductName string
	Quantity    int64
	Price       float64

	// 省略時は quantity * price
	Subtotal *float64
}

type PlaceOrderInput struct {
	CustomerName    string
	CustomerMobile  string
	CustomerAddress string

	PaymentMethod string

	// 申告合計。サービスは再計算せずそのまま保存する。
	Total *float64

	// 内訳は任意。全部そろっている場合だけ整合チェックする。
	Subtotal       *float64
	DeliveryCharge *float64
	Tax            *float64
	Discount       *float64
	CouponCode     string

	DeliveryType string
	DeliveryDate string
	DeliveryTime string
	Notes        string

	Items []OrderLineInput
}

type OrderItemOutput struct {
	ProductID *int64  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	Code            string            `json:"code"`
	CustomerID      *int64            `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerMobile  string            `json:"customer_mobile"`
	CustomerAddress string            `json:"customer_address"`
	Subtotal        float64           `json:"subtotal"`
	DeliveryCharge  float64           `json:"delivery_charge"`
	Tax             float64           `json:"tax"`
	Discount        float64           `json:"discount"`
	CouponCode      string            `json:"coupon_code,omitempty"`
	Total           float64           `json:"total"`
	PaymentMethod   string            `json:"payment_method"`
	PaymentStatus   string            `json:"payment_status"`
	DeliveryType    string            `json:"delivery_type,omitempty"`
	DeliveryDate    string            `json:"delivery_date,omitempty"`
	DeliveryTime    string            `json:"delivery_time,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CancelledReason string            `json:"cancelled_reason,omitempty"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
	ItemsCount      int               `json:"items_count"`
	Items           []OrderItemOutput `json:"items"`
}

// PlaceOrder は顧客向けの注文作成。
// 電話番号で顧客をupsertし、注文＋明細を1つの書き込みで保存して
// 生成した注文コードを返す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (string, error) {
	if err := validatePlaceOrder(in); err != nil {
		return "", err
	}

	// 顧客upsertは注文トランザクションの外（contractは両バックエンド共通）。
	// ここで落ちた場合、注文の無い顧客が残ることは許容する。
	customerID, err := u.upsertCustomer(ctx, in)
	if err != nil {
		return "", err
	}

	now := u.now()
	var code string

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// コード採番。ファイル実装は一意制約が無いので明示的に衝突チェック。
		code = ""
		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			c := newOrderCode()
			exists, err := r.Orders().CodeExists(ctx, c)
			if err != nil {
				return err
			}
			if !exists {
				code = c
				break
			}
		}
		if code == "" {
			return NewHTTPError(http.StatusInternalServerError, "could not allocate order code")
		}

		order := model.Order{
			Code:            code,
			CustomerID:      &customerID,
			CustomerName:    strings.TrimSpace(in.CustomerName),
			CustomerMobile:  strings.TrimSpace(in.CustomerMobile),
			CustomerAddress: strings.TrimSpace(in.CustomerAddress),
			Subtotal:        deref(in.Subtotal),
			DeliveryCharge:  deref(in.DeliveryCharge),
			Tax:             deref(in.Tax),
			Discount:        deref(in.Discount),
			CouponCode:      in.CouponCode,
			Total:           *in.Total,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   model.PaymentStatusPending,
			DeliveryType:    in.DeliveryType,
			DeliveryDate:    in.DeliveryDate,
			DeliveryTime:    in.DeliveryTime,
			Notes:           in.Notes,
			Status:          model.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			sub := line.Price * float64(line.Quantity)
			if line.Subtotal != nil {
				sub = *line.Subtotal
			}
			items = append(items, model.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Price:       line.Price,
				Quantity:    line.Quantity,
				Subtotal:    sub,
			})
		}
		return r.OrderItems().CreateBulk(ctx, order.ID, items)
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return "", err
		}
		//ストレージ起因の失敗は詳細をログにだけ残す
		log.Printf("order create failed: %v", err)
		return "", NewHTTPError(http.StatusInternalServerError, "order could not be created")
	}

	return code, nil
}

// TrackByCode は注文コードでの公開照会。
func (u *OrderUsecase) TrackByCode(ctx context.Context, code string) (OrderOutput, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByCode(ctx, code)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func validatePlaceOrder(in PlaceOrderInput) error {
	var missing []string
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(in.CustomerMobile) == "" {
		missing = append(missing, "customer_mobile")
	}
	if strings.TrimSpace(in.CustomerAddress) == "" {
		missing = append(missing, "customer_address")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		missing = append(missing, "payment_method")
	}
	if in.Total == nil {
		missing = append(missing, "total")
	}
	if len(missing) > 0 {
		return NewHTTPError(http.StatusBadRequest,
			"missing required field(s): "+strings.Join(missing, ", "))
	}

	if *in.Total < 0 {
		return NewHTTPError(http.StatusBadRequest, "total must be non-negative")
	}
	if len(in.Items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	for i, line := range in.Items {
		if strings.TrimSpace(line.ProductName) == "" {
			return NewHTTPError(http.StatusBadRequest, "cart item "+strconv.Itoa(i+1)+": product name is required")
		}
		if line.Quantity <= 0 {
			return NewHTTPError(http.StatusBadRequest, "cart item "+strconv.Itoa(i+1)+": quantity must be positive")
		}
		if line.Price < 0 {
			return NewHTTPError(http.StatusBadRequest, "cart item "+strconv.Itoa(i+1)+": price must be non-negative")
		}
		if line.Subtotal != nil && *line.Subtotal < 0 {
			return NewHTTPError(http.StatusBadRequest, "cart item "+strconv.Itoa(i+1)+": subtotal must be non-negative")
		}
	}

	// 内訳が全部そろっている場合だけ合計と突き合わせる
	if in.Subtotal != nil && in.DeliveryCharge != nil && in.Tax != nil && in.Discount != nil {
		calc := *in.Subtotal + *in.DeliveryCharge + *in.Tax - *in.Discount
		if math.Abs(calc-*in.Total) > 0.005 {
			return NewHTTPError(http.StatusBadRequest, "total does not match price breakdown")
		}
	}

	return nil
}

// upsert-by-phone。既存なら名前・住所を最新に上書き、無ければ新規。
func (u *OrderUsecase) upsertCustomer(ctx context.Context, in PlaceOrderInput) (int64, error) {
	phone := strings.TrimSpace(in.CustomerMobile)

	c, err := u.customers.FindByPhone(ctx, phone)
	if err == nil {
		if err := u.customers.UpdateContact(ctx, c.ID, strings.TrimSpace(in.CustomerName), strings.TrimSpace(in.CustomerAddress)); err != nil {
			log.Printf("customer update failed: %v", err)
			return 0, NewHTTPError(http.StatusInternalServerError, "order could not be created")
		}
		return c.ID, nil
	}
	if err != repo.ErrNotFound {
		log.Printf("customer lookup failed: %v", err)
		return 0, NewHTTPError(http.StatusInternalServerError, "order could not be created")
	}

	nc := model.Customer{
		Phone:   phone,
		Name:    strings.TrimSpace(in.CustomerName),
		Address: strings.TrimSpace(in.CustomerAddress),
	}
	if err := u.customers.Create(ctx, &nc); err != nil {
		log.Printf("customer create failed: %v", err)
		return 0, NewHTTPError(http.StatusInternalServerError, "order could not be created")
	}
	return nc.ID, nil
}

func newOrderCode() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// crypto/randが失敗することはまず無いがuuidから代替生成する
		u := uuid.New()
		copy(b, u[:6])
	}
	for i := range b {
		b[i] = orderCodeAlphabet[int(b[i])%len(orderCodeAlphabet)]
	}
	return orderCodePrefix + string(b)
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		Code:            o.Code,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerMobile:  o.CustomerMobile,
		CustomerAddress: o.CustomerAddress,
		Subtotal:        o.Subtotal,
		DeliveryCharge:  o.DeliveryCharge,
		Tax:             o.Tax,
		Discount:        o.Discount,
		CouponCode:      o.CouponCode,
		Total:           o.Total,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		DeliveryType:    o.DeliveryType,
		DeliveryDate:    o.DeliveryDate,
		DeliveryTime:    o.DeliveryTime,
		Notes:           o.Notes,
		CancelledReason: o.CancelledReason,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		CancelledAt:     o.CancelledAt,
		ItemsCount:      len(outItems),
		Items:           outItems,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

