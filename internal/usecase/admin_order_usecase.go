package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 監査ログの出力先。実装はブロックせず、失敗を返さない。
type AuditSink interface {
	Record(e model.AuditLog)
}

// 認証済み管理者。middlewareが解決した値をそのまま持ち込む。
type Actor struct {
	AdminID   int64
	Role      model.AdminRole
	IP        string
	UserAgent string
}

type AdminOrderUsecase struct {
	tx    repo.TransactionManager
	audit AuditSink
	now   func() time.Time
}

func NewAdminOrderUsecase(tx repo.TransactionManager, audit AuditSink) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, audit: audit, now: time.Now}
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"total_pages"`
}

type UpdateOrderStatusInput struct {
	Status          string
	PaymentStatus   string
	Notes           *string
	CancelledReason *string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.OrderListFilter) ([]OrderOutput, Pagination, error) {
	f.Normalize()

	outs := []OrderOutput{}
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().List(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		total = n

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, Pagination{}, err
	}

	p := Pagination{
		CurrentPage: f.Page,
		PerPage:     f.Limit,
		Total:       total,
		TotalPages:  (total + int64(f.Limit) - 1) / int64(f.Limit),
	}
	return outs, p, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
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

// ステータス遷移のスナップショット（監査ログ用）
type statusSnapshot struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateStatus はstatus/payment_statusの唯一の変更経路。
// 遷移テーブル外は拒否、現在値への再送はno-op、
// staffのキャンセルはpending/confirmedからのみ。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor Actor, orderID int64, in UpdateOrderStatusInput) error {
	if actor.AdminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var target *model.OrderStatus
	if in.Status != "" {
		st := model.OrderStatus(in.Status)
		if !st.Valid() {
			return NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		target = &st
	}

	var payment *model.PaymentStatus
	if in.PaymentStatus != "" {
		ps := model.PaymentStatus(in.PaymentStatus)
		if !ps.Valid() {
			return NewHTTPError(http.StatusBadRequest, "invalid payment_status")
		}
		payment = &ps
	}

	if target == nil && payment == nil && in.Notes == nil {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	var before, after statusSnapshot

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = statusSnapshot{Status: string(o.Status), PaymentStatus: string(o.PaymentStatus)}
		after = before

		upd := repo.StatusUpdate{
			PaymentStatus: payment,
			Notes:         in.Notes,
		}

		if target != nil && *target != o.Status {
			if !o.Status.CanTransitionTo(*target) {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("cannot change status from %s to %s", o.Status, *target))
			}
			if *target == model.OrderStatusCancelled {
				// staffはpending/confirmedからしかキャンセルできない
				if actor.Role != model.RoleAdmin &&
					o.Status != model.OrderStatusPending && o.Status != model.OrderStatusConfirmed {
					return NewHTTPError(http.StatusForbidden,
						"permission denied: staff may only cancel pending or confirmed orders")
				}
				at := u.now()
				upd.CancelledAt = &at
				upd.CancelledReason = in.CancelledReason
			}
			upd.Status = target
			after.Status = string(*target)
		}
		if payment != nil {
			after.PaymentStatus = string(*payment)
		}

		// 現在値への再送だけ、かつ他に変更が無い場合は書き込み自体をスキップ
		if upd.Status == nil && upd.PaymentStatus == nil && upd.Notes == nil {
			return nil
		}

		if err := r.Orders().ApplyStatus(ctx, orderID, upd); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.recordAudit(actor, model.AuditActionUpdateOrderStatus, orderID, before, after)
	return nil
}

// Update は許可リスト項目だけの部分更新。status/payment_statusはここを通らない。
func (u *AdminOrderUsecase) Update(ctx context.Context, actor Actor, orderID int64, p repo.OrderPatch) error {
	if actor.AdminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if p.Empty() {
		return NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	var before, after model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		before = o

		if err := r.Orders().Update(ctx, orderID, p); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		after, err = r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.recordAudit(actor, model.AuditActionUpdateOrder, orderID, before, after)
	return nil
}

func (u *AdminOrderUsecase) recordAudit(actor Actor, action model.AuditAction, orderID int64, before, after any) {
	beforeJSON, _ := json.Marshal(before)
	afterJSON, _ := json.Marshal(after)
	u.audit.Record(model.AuditLog{
		ActorAdminID: actor.AdminID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		RequestIP:    actor.IP,
		UserAgent:    actor.UserAgent,
		CreatedAt:    u.now(),
	})
}
