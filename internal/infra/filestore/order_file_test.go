package filestore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), time.UTC)
	require.NoError(t, err)
	return s
}

func seedOrder(t *testing.T, r *OrderFileRepository, o model.Order) model.Order {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &o))
	return o
}

func TestOrderFileRepository_Create_AssignsIDs(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	o1 := seedOrder(t, r, model.Order{Code: "SF-AAAAAA", Status: model.OrderStatusPending})
	o2 := seedOrder(t, r, model.Order{Code: "SF-BBBBBB", Status: model.OrderStatusPending})

	assert.Equal(t, int64(1), o1.ID)
	assert.Equal(t, int64(2), o2.ID)

	got, err := r.FindByCode(ctx, "SF-BBBBBB")
	assert.NoError(t, err)
	assert.Equal(t, o2.ID, got.ID)

	exists, err := r.CodeExists(ctx, "SF-AAAAAA")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.CodeExists(ctx, "SF-ZZZZZZ")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestOrderFileRepository_Create_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	seedOrder(t, r, model.Order{Code: "SF-AAAAAA"})

	err := r.Create(ctx, &model.Order{Code: "SF-AAAAAA"})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestOrderFileRepository_FindByID_NotFound(t *testing.T) {
	r := NewOrderFileRepository(newTestStore(t))

	_, err := r.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderFileRepository_List_Pagination(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	for i := 0; i < 45; i++ {
		seedOrder(t, r, model.Order{
			Code:   fmt.Sprintf("SF-%06d", i),
			Status: model.OrderStatusPending,
		})
	}

	// 45件・20件ずつの3ページ目は5件
	rows, total, err := r.List(ctx, repo.OrderListFilter{Page: 3, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Equal(t, 5, len(rows))

	// 範囲外ページは空
	rows, total, err = r.List(ctx, repo.OrderListFilter{Page: 4, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Equal(t, 0, len(rows))
}

func TestOrderFileRepository_List_StatusAndPaymentFilter(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	seedOrder(t, r, model.Order{Code: "SF-000001", Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending})
	seedOrder(t, r, model.Order{Code: "SF-000002", Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPaid})
	seedOrder(t, r, model.Order{Code: "SF-000003", Status: model.OrderStatusConfirmed, PaymentStatus: model.PaymentStatusPending})

	rows, total, err := r.List(ctx, repo.OrderListFilter{Status: "confirmed"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 2, len(rows))

	rows, _, err = r.List(ctx, repo.OrderListFilter{Status: "confirmed", PaymentStatus: "paid"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "SF-000002", rows[0].Code)
}

func TestOrderFileRepository_List_TodayFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// 「今日」を固定する
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	r := NewOrderFileRepository(s)

	seedOrder(t, r, model.Order{Code: "SF-000001", CreatedAt: now.Add(-48 * time.Hour)})
	seedOrder(t, r, model.Order{Code: "SF-000002", CreatedAt: now.Add(-2 * time.Hour)})
	seedOrder(t, r, model.Order{Code: "SF-000003"}) // CreatedAtゼロ値はnowが入る

	rows, total, err := r.List(ctx, repo.OrderListFilter{Today: true})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, o := range rows {
		assert.NotEqual(t, "SF-000001", o.Code)
	}
}

func TestOrderFileRepository_List_DateRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 10, 0, 0, 0, time.UTC)
	}

	r := NewOrderFileRepository(s)
	seedOrder(t, r, model.Order{Code: "SF-000010", CreatedAt: day(10)})
	seedOrder(t, r, model.Order{Code: "SF-000015", CreatedAt: day(15)})
	seedOrder(t, r, model.Order{Code: "SF-000020", CreatedAt: day(20)})

	// 両端含む
	rows, total, err := r.List(ctx, repo.OrderListFilter{FromDate: "2026-08-15", ToDate: "2026-08-20"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	codes := []string{rows[0].Code, rows[1].Code}
	assert.Contains(t, codes, "SF-000015")
	assert.Contains(t, codes, "SF-000020")

	rows, _, err = r.List(ctx, repo.OrderListFilter{ToDate: "2026-08-10"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "SF-000010", rows[0].Code)
}

func TestOrderFileRepository_List_Search(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	seedOrder(t, r, model.Order{Code: "SF-AB12CD", CustomerName: "Rahim Uddin", CustomerMobile: "01712345678"})
	seedOrder(t, r, model.Order{Code: "SF-XY99ZZ", CustomerName: "Karim Mia", CustomerMobile: "01898765432"})

	// コードの部分一致（大文字小文字を無視）
	rows, _, err := r.List(ctx, repo.OrderListFilter{Search: "ab12"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "SF-AB12CD", rows[0].Code)

	// 顧客名
	rows, _, err = r.List(ctx, repo.OrderListFilter{Search: "karim"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "SF-XY99ZZ", rows[0].Code)

	// 電話番号
	rows, _, err = r.List(ctx, repo.OrderListFilter{Search: "0171"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "SF-AB12CD", rows[0].Code)

	rows, total, err := r.List(ctx, repo.OrderListFilter{Search: "no-such"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, 0, len(rows))
}

func TestOrderFileRepository_List_Sort(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	r := NewOrderFileRepository(s)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, r, model.Order{Code: "SF-000001", Total: 300, CreatedAt: base})
	seedOrder(t, r, model.Order{Code: "SF-000002", Total: 100, CreatedAt: base.Add(time.Hour)})
	seedOrder(t, r, model.Order{Code: "SF-000003", Total: 200, CreatedAt: base.Add(2 * time.Hour)})

	// 既定は新しい順
	rows, _, err := r.List(ctx, repo.OrderListFilter{})
	assert.NoError(t, err)
	require.Equal(t, 3, len(rows))
	assert.Equal(t, "SF-000003", rows[0].Code)
	assert.Equal(t, "SF-000001", rows[2].Code)

	rows, _, err = r.List(ctx, repo.OrderListFilter{Sort: "total desc"})
	assert.NoError(t, err)
	assert.Equal(t, "SF-000001", rows[0].Code)
	assert.Equal(t, "SF-000002", rows[2].Code)

	rows, _, err = r.List(ctx, repo.OrderListFilter{Sort: "id asc"})
	assert.NoError(t, err)
	assert.Equal(t, "SF-000001", rows[0].Code)

	// 許可外は既定に落ちる
	rows, _, err = r.List(ctx, repo.OrderListFilter{Sort: "customer_name asc"})
	assert.NoError(t, err)
	assert.Equal(t, "SF-000003", rows[0].Code)
}

func TestOrderFileRepository_Update_Patch(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	o := seedOrder(t, r, model.Order{
		Code:         "SF-000001",
		CustomerName: "Rahim Uddin",
		Notes:        "old note",
		DeliveryType: "home",
	})

	notes := "call before delivery"
	dtype := "pickup"
	err := r.Update(ctx, o.ID, repo.OrderPatch{Notes: &notes, DeliveryType: &dtype})
	assert.NoError(t, err)

	got, err := r.FindByID(ctx, o.ID)
	assert.NoError(t, err)
	assert.Equal(t, "call before delivery", got.Notes)
	assert.Equal(t, "pickup", got.DeliveryType)
	// 触っていない項目はそのまま
	assert.Equal(t, "Rahim Uddin", got.CustomerName)

	err = r.Update(ctx, 999, repo.OrderPatch{Notes: &notes})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderFileRepository_ApplyStatus(t *testing.T) {
	ctx := context.Background()
	r := NewOrderFileRepository(newTestStore(t))

	o := seedOrder(t, r, model.Order{
		Code:          "SF-000001",
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
	})

	st := model.OrderStatusCancelled
	reason := "customer asked"
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	err := r.ApplyStatus(ctx, o.ID, repo.StatusUpdate{
		Status:          &st,
		CancelledReason: &reason,
		CancelledAt:     &at,
	})
	assert.NoError(t, err)

	got, err := r.FindByID(ctx, o.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
	assert.Equal(t, "customer asked", got.CancelledReason)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, got.CancelledAt.Equal(at))
	// 支払いステータスは触っていない
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)

	err = r.ApplyStatus(ctx, 999, repo.StatusUpdate{Status: &st})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
