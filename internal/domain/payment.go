package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

// The three methods the storefront offers. Payments are recorded, never
// processed against an external gateway.
const (
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCashOnDelivery, PaymentMethodCreditCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment is one-to-one with its order; amount is copied from the order
// total at creation.
type Payment struct {
	ID        uuid.UUID     `json:"id"`
	OrderID   uuid.UUID     `json:"order_id"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"payment_method"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
