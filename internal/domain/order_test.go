package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled} {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, OrderStatus("paid").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCanceled, true},
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusPending, false},
		{OrderStatusCanceled, OrderStatusShipped, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCanceled.IsTerminal())
}

func TestOrderLine_Subtotal(t *testing.T) {
	line := OrderLine{Quantity: 3, Price: 45.50}
	assert.Equal(t, 136.50, line.Subtotal())
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodBankTransfer.IsValid())
	assert.True(t, PaymentMethodCashOnDelivery.IsValid())
	assert.True(t, PaymentMethodCreditCard.IsValid())
	assert.False(t, PaymentMethod("paypal").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}
