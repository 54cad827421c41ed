package filestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderFileRepository struct {
	s  *Store
	tx *fileTx // nilなら単発で読み書き
}

func NewOrderFileRepository(s *Store) *OrderFileRepository {
	return &OrderFileRepository{s: s}
}

func (r *OrderFileRepository) Create(ctx context.Context, order *model.Order) error {
	return run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}

		// 一意制約が無いのでコード重複はここで弾く
		for i := range d.Rows {
			if d.Rows[i].Code == order.Code {
				return repo.ErrConflict
			}
		}

		d.Seq++
		order.ID = d.Seq
		now := r.s.now()
		if order.CreatedAt.IsZero() {
			order.CreatedAt = now
		}
		order.UpdatedAt = now

		cp := *order
		cp.Items = nil
		d.Rows = append(d.Rows, cp)
		t.markDirty(colOrders)
		return nil
	})
}

func (r *OrderFileRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var out model.Order
	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].ID == orderID {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *OrderFileRepository) FindByCode(ctx context.Context, code string) (model.Order, error) {
	var out model.Order
	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Code == code {
				out = d.Rows[i]
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *OrderFileRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}
		for i := range d.Rows {
			if d.Rows[i].Code == code {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

func (r *OrderFileRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	f.Normalize()

	out := []model.Order{}
	var total int64

	err := run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}

		rows := filterOrders(d.Rows, f, r.s.loc, r.s.now())
		sortOrders(rows, f.Sort)
		total = int64(len(rows))

		start := (f.Page - 1) * f.Limit
		if start >= len(rows) {
			return nil
		}
		end := start + f.Limit
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end]...)
		return nil
	})
	if err != nil {
		return []model.Order{}, 0, err
	}
	return out, total, nil
}

func (r *OrderFileRepository) Update(ctx context.Context, orderID int64, p repo.OrderPatch) error {
	return run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}
		idx := indexByID(d.Rows, orderID)
		if idx < 0 {
			return repo.ErrNotFound
		}

		o := &d.Rows[idx]
		setStr := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		setStr(&o.CustomerName, p.CustomerName)
		setStr(&o.CustomerMobile, p.CustomerMobile)
		setStr(&o.CustomerAddress, p.CustomerAddress)
		setStr(&o.DeliveryType, p.DeliveryType)
		setStr(&o.DeliveryDate, p.DeliveryDate)
		setStr(&o.DeliveryTime, p.DeliveryTime)
		setStr(&o.Notes, p.Notes)
		setStr(&o.PaymentMethod, p.PaymentMethod)
		setStr(&o.CouponCode, p.CouponCode)
		o.UpdatedAt = r.s.now()

		t.markDirty(colOrders)
		return nil
	})
}

func (r *OrderFileRepository) ApplyStatus(ctx context.Context, orderID int64, u repo.StatusUpdate) error {
	return run(r.s, r.tx, func(t *fileTx) error {
		d, err := t.ordersDoc()
		if err != nil {
			return err
		}
		idx := indexByID(d.Rows, orderID)
		if idx < 0 {
			return repo.ErrNotFound
		}

		o := &d.Rows[idx]
		if u.Status != nil {
			o.Status = *u.Status
		}
		if u.PaymentStatus != nil {
			o.PaymentStatus = *u.PaymentStatus
		}
		if u.Notes != nil {
			o.Notes = *u.Notes
		}
		if u.CancelledReason != nil {
			o.CancelledReason = *u.CancelledReason
		}
		if u.CancelledAt != nil {
			at := *u.CancelledAt
			o.CancelledAt = &at
		}
		o.UpdatedAt = r.s.now()

		t.markDirty(colOrders)
		return nil
	})
}

func indexByID(rows []model.Order, id int64) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}

func filterOrders(rows []model.Order, f repo.OrderListFilter, loc *time.Location, now time.Time) []model.Order {
	from, hasFrom := parseDay(f.FromDate, loc)
	to, hasTo := parseDay(f.ToDate, loc)
	today := dayStart(now, loc)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Order, 0, len(rows))
	for _, o := range rows {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.PaymentStatus != "" && string(o.PaymentStatus) != f.PaymentStatus {
			continue
		}

		day := dayStart(o.CreatedAt, loc)
		if hasFrom && day.Before(from) {
			continue
		}
		if hasTo && day.After(to) {
			continue
		}
		if f.Today && !day.Equal(today) {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(o.Code), search) &&
			!strings.Contains(strings.ToLower(o.CustomerName), search) &&
			!strings.Contains(o.CustomerMobile, search) {
			continue
		}

		out = append(out, o)
	}
	return out
}

func sortOrders(rows []model.Order, sortSpec string) {
	field, desc := repo.NormalizeOrderSort(sortSpec)
	sort.SliceStable(rows, func(i, j int) bool {
		var less bool
		switch field {
		case "total":
			less = rows[i].Total < rows[j].Total
		case "id":
			less = rows[i].ID < rows[j].ID
		default:
			less = rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		if desc {
			return !less && !equalOn(field, rows[i], rows[j])
		}
		return less
	})
}

func equalOn(field string, a, b model.Order) bool {
	switch field {
	case "total":
		return a.Total == b.Total
	case "id":
		return a.ID == b.ID
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func parseDay(s string, loc *time.Location) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
