package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thanapat2004/FoodOrder/internal/domain"
)

func TestNewStatusEvent(t *testing.T) {
	orderID := uuid.New()

	event := NewStatusEvent(orderID, 7, domain.OrderStatusPending, domain.OrderStatusShipped)

	assert.Equal(t, orderID.String(), event.OrderID)
	assert.Equal(t, int64(7), event.UserID)
	assert.Equal(t, domain.OrderStatusPending, event.OldStatus)
	assert.Equal(t, domain.OrderStatusShipped, event.NewStatus)
	assert.WithinDuration(t, time.Now().UTC(), event.ChangedAt, time.Second)
}

func TestOrderStatusChanged_WireFormat(t *testing.T) {
	event := OrderStatusChanged{
		OrderID:   "3e2a1fbc-0000-0000-0000-000000000001",
		UserID:    7,
		OldStatus: domain.OrderStatusShipped,
		NewStatus: domain.OrderStatusDelivered,
		ChangedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "shipped", decoded["old_status"])
	assert.Equal(t, "delivered", decoded["new_status"])
	assert.Equal(t, float64(7), decoded["user_id"])
	assert.Contains(t, decoded, "changed_at")
}
