package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders の公開API（注文作成・注文コードでの照会）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", h.create)
	e.GET("/orders/:code", h.track)
}

// 歴史的に2種類のクライアントがいるため、明細の行は
// product_id/id と product_name/name の両方の綴りを受ける。
type orderLineRequest struct {
	ProductID *int64 `json:"product_id"`
	AltID     *int64 `json:"id"`

	ProductName string `json:"product_name"`
	AltName     string `json:"name"`

	Quantity int64    `json:"quantity"`
	Price    float64  `json:"price"`
	Subtotal *float64 `json:"subtotal"`
}

type placeOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerMobile  string `json:"customer_mobile"`
	CustomerAddress string `json:"customer_address"`

	PaymentMethod string `json:"payment_method"`

	Subtotal       *float64 `json:"subtotal"`
	DeliveryCharge *float64 `json:"delivery_charge"`
	Tax            *float64 `json:"tax"`
	Discount       *float64 `json:"discount"`
	CouponCode     string   `json:"coupon_code"`
	Total          *float64 `json:"total"`

	DeliveryType string `json:"delivery_type"`
	DeliveryDate string `json:"delivery_date"`
	DeliveryTime string `json:"delivery_time"`
	Notes        string `json:"notes"`

	// itemsが空ならcartを見る（旧クライアント互換）
	Items []orderLineRequest `json:"items"`
	Cart  []orderLineRequest `json:"cart"`
}

func (h *OrderHandler) create(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	lines := req.Items
	if len(lines) == 0 {
		lines = req.Cart
	}

	in := usecase.PlaceOrderInput{
		CustomerName:    req.CustomerName,
		CustomerMobile:  req.CustomerMobile,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        req.Subtotal,
		DeliveryCharge:  req.DeliveryCharge,
		Tax:             req.Tax,
		Discount:        req.Discount,
		CouponCode:      req.CouponCode,
		Total:           req.Total,
		DeliveryType:    req.DeliveryType,
		DeliveryDate:    req.DeliveryDate,
		DeliveryTime:    req.DeliveryTime,
		Notes:           req.Notes,
		Items:           make([]usecase.OrderLineInput, 0, len(lines)),
	}
	for _, l := range lines {
		pid := l.ProductID
		if pid == nil {
			pid = l.AltID
		}
		name := l.ProductName
		if name == "" {
			name = l.AltName
		}
		in.Items = append(in.Items, usecase.OrderLineInput{
			ProductID:   pid,
			ProductName: name,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Subtotal:    l.Subtotal,
		})
	}

	code, err := h.uc.PlaceOrder(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusCreated, "order placed", map[string]string{"order_code": code})
}

func (h *OrderHandler) track(c echo.Context) error {
	out, err := h.uc.TrackByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "ok", out)
}
