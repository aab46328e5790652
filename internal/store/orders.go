package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blinderbots/hottecouture-sub000/internal/models"
	"github.com/blinderbots/hottecouture-sub000/internal/workflow"
)

// CreateOrder creates a new order with its pricing snapshot
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (client_id, order_number, is_rush, due_date,
			subtotal_cents, rush_fee_cents, tax_cents, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.ClientID, order.OrderNumber, order.IsRush, order.DueDate,
		order.SubtotalCents, order.RushFeeCents, order.TaxCents, order.TotalCents,
		order.Status)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber retrieves an order by its human-facing number
func (s *Store) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE order_number = $1", number)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByClientID retrieves orders for a client
func (s *Store) GetOrdersByClientID(ctx context.Context, clientID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE client_id = $1 ORDER BY created_at DESC", clientID)
	return orders, err
}

// GetOpenOrders retrieves orders not yet delivered, for board and alert views
func (s *Store) GetOpenOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status <> $1 ORDER BY due_date NULLS LAST, created_at",
		workflow.StatusDelivered)
	return orders, err
}

// UpdateOrderStatus refreshes the cached derived status column. The column
// is a read-model cache only; the source of truth is the task stages.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status workflow.Status) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// CreateGarment creates a garment attached to an order
func (s *Store) CreateGarment(ctx context.Context, garment *models.Garment) error {
	query := `
		INSERT INTO garments (order_id, type, color, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &garment.ID, query,
		garment.OrderID, garment.Type, garment.Color, garment.Notes)
}

// CreateOrderItem creates a new garment/service line
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, garment_id, service_id, quantity, unit_price_cents, custom_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.OrderID, item.GarmentID, item.ServiceID, item.Quantity,
		item.UnitPriceCents, item.CustomPriceCents)
}

// GetOrderItemsByOrderID retrieves all lines for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// CreatePayment records money received against an order
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, amount_cents, method)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, payment, query,
		payment.OrderID, payment.AmountCents, payment.Method)
}

// GetPaymentsByOrderID retrieves payments for an order
func (s *Store) GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at", orderID)
	return payments, err
}

// SumPaymentsByOrderID returns the total cents paid against an order
func (s *Store) SumPaymentsByOrderID(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE order_id = $1", orderID)
	return total, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
