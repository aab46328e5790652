package models

import (
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/workflow"
)

// Client represents a shop client
type Client struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Service represents a catalog entry (hemming, zipper replacement, ...)
type Service struct {
	ID             int64     `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	BasePriceCents int64     `db:"base_price_cents" json:"base_price_cents"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Garment represents one physical garment attached to an order
type Garment struct {
	ID      int64  `db:"id" json:"id"`
	OrderID int64  `db:"order_id" json:"order_id"`
	Type    string `db:"type" json:"type"`
	Color   string `db:"color" json:"color,omitempty"`
	Notes   string `db:"notes" json:"notes,omitempty"`
}

// Order represents a client order. The monetary columns are the persisted
// snapshot of the pricing engine's result; Status is a cache of the derived
// workflow status and is recomputed on every task-stage change.
type Order struct {
	ID            int64      `db:"id" json:"id"`
	ClientID      int64      `db:"client_id" json:"client_id"`
	OrderNumber   string     `db:"order_number" json:"order_number"`
	IsRush        bool       `db:"is_rush" json:"is_rush"`
	DueDate       *time.Time `db:"due_date" json:"due_date,omitempty"`
	SubtotalCents int64      `db:"subtotal_cents" json:"subtotal_cents"`
	RushFeeCents  int64      `db:"rush_fee_cents" json:"rush_fee_cents"`
	TaxCents      int64      `db:"tax_cents" json:"tax_cents"`
	TotalCents    int64      `db:"total_cents" json:"total_cents"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one garment/service line on an order
type OrderItem struct {
	ID               int64  `db:"id" json:"id"`
	OrderID          int64  `db:"order_id" json:"order_id"`
	GarmentID        int64  `db:"garment_id" json:"garment_id"`
	ServiceID        int64  `db:"service_id" json:"service_id"`
	Quantity         int    `db:"quantity" json:"quantity"`
	UnitPriceCents   int64  `db:"unit_price_cents" json:"unit_price_cents"`
	CustomPriceCents *int64 `db:"custom_price_cents" json:"custom_price_cents,omitempty"`
}

// Task represents one unit of work on the board
type Task struct {
	ID         int64          `db:"id" json:"id"`
	OrderID    int64          `db:"order_id" json:"order_id"`
	GarmentID  int64          `db:"garment_id" json:"garment_id"`
	ServiceID  int64          `db:"service_id" json:"service_id"`
	Stage      workflow.Stage `db:"stage" json:"stage"`
	AssignedTo string         `db:"assigned_to" json:"assigned_to,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// StageChange is the audit row written alongside every task transition
type StageChange struct {
	ID        int64          `db:"id" json:"id"`
	TaskID    int64          `db:"task_id" json:"task_id"`
	FromStage workflow.Stage `db:"from_stage" json:"from_stage"`
	ToStage   workflow.Stage `db:"to_stage" json:"to_stage"`
	Reason    string         `db:"reason" json:"reason,omitempty"`
	ChangedBy string         `db:"changed_by" json:"changed_by,omitempty"`
	ChangedAt time.Time      `db:"changed_at" json:"changed_at"`
}

// Payment represents money received against an order
type Payment struct {
	ID          int64     `db:"id" json:"id"`
	OrderID     int64     `db:"order_id" json:"order_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Method      string    `db:"method" json:"method"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodEtrans = "etransfer"
)

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
