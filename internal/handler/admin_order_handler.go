package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc     *usecase.AdminOrderUsecase
	audits *usecase.AuditLogUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, audits *usecase.AuditLogUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, audits: audits}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, sessions repository.SessionRepository, admins repository.AdminRepository, sessionTTL time.Duration) {
	g := e.Group("/admin")
	g.Use(middleware.SessionAuth(sessions, admins, sessionTTL))

	g.GET("/orders", h.list)
	g.GET("/orders/:id", h.get)
	g.PUT("/orders/:id", h.update)
	g.PUT("/orders/:id/status", h.updateStatus)

	//監査ログはadminロールのみ
	g.GET("/audit-logs", h.auditLogs, middleware.RoleGuard(model.RoleAdmin))
}

type orderListResponse struct {
	Data       []usecase.OrderOutput `json:"data"`
	Pagination usecase.Pagination    `json:"pagination"`
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f := repository.OrderListFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
		FromDate:      c.QueryParam("from_date"),
		ToDate:        c.QueryParam("to_date"),
		Search:        c.QueryParam("search"),
		Sort:          c.QueryParam("sort"),
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid page")
		}
		f.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		f.Limit = l
	}
	switch c.QueryParam("today") {
	case "", "0", "false":
	case "1", "true":
		f.Today = true
	default:
		return fail(c, http.StatusBadRequest, "invalid today")
	}
	if f.FromDate != "" {
		if _, err := time.Parse("2006-01-02", f.FromDate); err != nil {
			return fail(c, http.StatusBadRequest, "invalid from_date")
		}
	}
	if f.ToDate != "" {
		if _, err := time.Parse("2006-01-02", f.ToDate); err != nil {
			return fail(c, http.StatusBadRequest, "invalid to_date")
		}
	}

	orders, pagination, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusOK, "ok", orderListResponse{Data: orders, Pagination: pagination})
}

func (h *AdminOrderHandler) get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "ok", out)
}

type orderStatusUpdateRequest struct {
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	Notes           *string `json:"notes"`
	CancelledReason *string `json:"cancelled_reason"`
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req orderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	err = h.uc.UpdateStatus(c.Request().Context(), actorFrom(c), id, usecase.UpdateOrderStatusInput{
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		Notes:           req.Notes,
		CancelledReason: req.CancelledReason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusOK, "order status updated", nil)
}

type orderUpdateRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerMobile  *string `json:"customer_mobile"`
	CustomerAddress *string `json:"customer_address"`
	DeliveryType    *string `json:"delivery_type"`
	DeliveryDate    *string `json:"delivery_date"`
	DeliveryTime    *string `json:"delivery_time"`
	Notes           *string `json:"notes"`
	PaymentMethod   *string `json:"payment_method"`
	CouponCode      *string `json:"coupon_code"`
}

func (h *AdminOrderHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req orderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	err = h.uc.Update(c.Request().Context(), actorFrom(c), id, repository.OrderPatch{
		CustomerName:    req.CustomerName,
		CustomerMobile:  req.CustomerMobile,
		CustomerAddress: req.CustomerAddress,
		DeliveryType:    req.DeliveryType,
		DeliveryDate:    req.DeliveryDate,
		DeliveryTime:    req.DeliveryTime,
		Notes:           req.Notes,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, http.StatusOK, "order updated", nil)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	f := repository.AuditLogFilter{}

	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid resource_id")
		}
		f.ResourceID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		f.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid offset")
		}
		f.Offset = o
	}

	logs, err := h.audits.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "ok", logs)
}

// middlewareが解決した管理者をusecaseのActorに詰め替える
func actorFrom(c echo.Context) usecase.Actor {
	a := usecase.Actor{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if id, ok := c.Get(middleware.CtxAdminIDKey).(int64); ok {
		a.AdminID = id
	}
	if role, ok := c.Get(middleware.CtxAdminRoleKey).(model.AdminRole); ok {
		a.Role = role
	}
	return a
}
