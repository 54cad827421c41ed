package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewOrderGormRepository(db *gorm.DB, loc *time.Location) *OrderGormRepository {
	return &OrderGormRepository{db: db, loc: loc, now: time.Now}
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if isUniqueViolation(err) {
			return repo.ErrConflict
		}
		return err
	}
	return nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) FindByCode(ctx context.Context, code string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("code = ?", code).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	f.Normalize()

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}

	//期間絞り込み（作成日の日付部分、両端含む）
	if from, ok := parseDay(f.FromDate, r.loc); ok {
		q = q.Where("created_at >= ?", from)
	}
	if to, ok := parseDay(f.ToDate, r.loc); ok {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
	if f.Today {
		day := dayStart(r.now(), r.loc)
		q = q.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	}

	//コード・顧客名・電話の部分一致
	if s := strings.TrimSpace(f.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"lower(code) LIKE ? OR lower(customer_name) LIKE ? OR customer_mobile LIKE ?",
			pat, pat, pat,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	field, desc := repo.NormalizeOrderSort(f.Sort)
	dir := "asc"
	if desc {
		dir = "desc"
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	err := q.Order(field + " " + dir).
		Limit(f.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Update(ctx context.Context, orderID int64, p repo.OrderPatch) error {
	updates := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setStr("customer_name", p.CustomerName)
	setStr("customer_mobile", p.CustomerMobile)
	setStr("customer_address", p.CustomerAddress)
	setStr("delivery_type", p.DeliveryType)
	setStr("delivery_date", p.DeliveryDate)
	setStr("delivery_time", p.DeliveryTime)
	setStr("notes", p.Notes)
	setStr("payment_method", p.PaymentMethod)
	setStr("coupon_code", p.CouponCode)
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = r.now()

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ApplyStatus(ctx context.Context, orderID int64, u repo.StatusUpdate) error {
	updates := map[string]any{}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.PaymentStatus != nil {
		updates["payment_status"] = *u.PaymentStatus
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	if u.CancelledReason != nil {
		updates["cancelled_reason"] = *u.CancelledReason
	}
	if u.CancelledAt != nil {
		updates["cancelled_at"] = *u.CancelledAt
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = r.now()

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
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
