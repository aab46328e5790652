package models

import (
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/workflow"
)

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeTaskStageChanged   = "TASK_STAGE_CHANGED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypePaymentRecorded    = "PAYMENT_RECORDED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an intake submission is persisted
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	ClientID    int64           `json:"client_id"`
	OrderNumber string          `json:"order_number"`
	IsRush      bool            `json:"is_rush"`
	TotalCents  int64           `json:"total_cents"`
	Items       []OrderItemData `json:"items"`
}

// TaskStageChangedEvent published on every accepted board transition
type TaskStageChangedEvent struct {
	BaseEvent
	OrderID   int64          `json:"order_id"`
	TaskID    int64          `json:"task_id"`
	FromStage workflow.Stage `json:"from_stage"`
	ToStage   workflow.Stage `json:"to_stage"`
	Reason    string         `json:"reason,omitempty"`
	ChangedBy string         `json:"changed_by,omitempty"`
}

// OrderStatusChangedEvent published when the derived order status moves
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID  int64           `json:"order_id"`
	Status   workflow.Status `json:"status"`
	Progress int             `json:"progress"`
}

// PaymentRecordedEvent published when money is received against an order
type PaymentRecordedEvent struct {
	BaseEvent
	OrderID      int64 `json:"order_id"`
	PaymentID    int64 `json:"payment_id"`
	AmountCents  int64 `json:"amount_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

// OrderItemData represents line data carried in events
type OrderItemData struct {
	GarmentID      int64 `json:"garment_id"`
	ServiceID      int64 `json:"service_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
}
