package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), "status %s", s)
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("PENDING").Valid())
}

// 遷移テーブルの全組み合わせを確認する
func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending:        {OrderStatusConfirmed: true, OrderStatusCancelled: true},
		OrderStatusConfirmed:      {OrderStatusPreparing: true, OrderStatusCancelled: true},
		OrderStatusPreparing:      {OrderStatusOutForDelivery: true, OrderStatusCancelled: true},
		OrderStatusOutForDelivery: {OrderStatusDelivered: true, OrderStatusCancelled: true},
		OrderStatusDelivered:      {},
		OrderStatusCancelled:      {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())

	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusConfirmed.Terminal())
	assert.False(t, OrderStatusPreparing.Terminal())
	assert.False(t, OrderStatusOutForDelivery.Terminal())

	// 未知の値は終端扱いにしない
	assert.False(t, OrderStatus("unknown").Terminal())
}

func TestPaymentStatus_Valid(t *testing.T) {
	assert.True(t, PaymentStatusPending.Valid())
	assert.True(t, PaymentStatusPaid.Valid())
	assert.True(t, PaymentStatusFailed.Valid())
	assert.True(t, PaymentStatusRefunded.Valid())

	assert.False(t, PaymentStatus("").Valid())
	assert.False(t, PaymentStatus("PAID").Valid())
}
