package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/broker"
	"github.com/blinderbots/hottecouture-sub000/internal/models"
	"github.com/blinderbots/hottecouture-sub000/internal/pricing"
	"github.com/blinderbots/hottecouture-sub000/internal/redisclient"
	"github.com/blinderbots/hottecouture-sub000/internal/store"
	"github.com/blinderbots/hottecouture-sub000/internal/util"
	"github.com/blinderbots/hottecouture-sub000/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles the intake flow: it assembles client, garment and
// service selections into an order, computes the authoritative totals
// server-side, and persists the result.
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	pricingCfg     pricing.Config
	rushThreshold  int64
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	pricingCfg pricing.Config,
	rushThresholdCents int64,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		pricingCfg:     pricingCfg,
		rushThreshold:  rushThresholdCents,
		logger:         util.GetLogger(),
	}
}

// CreateOrderRequest represents an intake form submission
type CreateOrderRequest struct {
	ClientID       int64            `json:"client_id" binding:"required"`
	IsRush         bool             `json:"is_rush"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	Garments       []GarmentRequest `json:"garments" binding:"required,min=1"`
	IdempotencyKey string           `json:"idempotency_key,omitempty"`
}

// GarmentRequest represents one garment on the intake form
type GarmentRequest struct {
	Type     string             `json:"type" binding:"required"`
	Color    string             `json:"color,omitempty"`
	Notes    string             `json:"notes,omitempty"`
	Services []ServiceSelection `json:"services" binding:"required,min=1"`
}

// ServiceSelection represents one service applied to a garment
type ServiceSelection struct {
	ServiceID        int64  `json:"service_id" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,min=1"`
	CustomPriceCents *int64 `json:"custom_price_cents,omitempty"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID     int64          `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	Pricing     pricing.Result `json:"pricing"`
}

// CreateOrder assembles and persists an intake submission. Totals are always
// recomputed here from the catalog, never trusted from the client; the pure
// pricing engine guarantees the intake-time estimate and this recompute agree.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if req.IdempotencyKey != "" {
		seen, err := s.redis.CheckIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("Idempotency check failed, continuing", zap.Error(err))
		} else if seen {
			util.OrdersFailedTotal.WithLabelValues("duplicate_submission").Inc()
			return nil, fmt.Errorf("duplicate intake submission: %s", req.IdempotencyKey)
		}
	}

	if _, err := s.store.GetClientByID(ctx, req.ClientID); err != nil {
		util.OrdersFailedTotal.WithLabelValues("unknown_client").Inc()
		return nil, err
	}

	services, err := s.resolveServices(ctx, req)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	op := s.buildOrderPricing(req, services)

	start := time.Now()
	result, err := pricing.CalculateOrderPricing(op)
	util.PricingCalcLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("pricing_error").Inc()
		return nil, fmt.Errorf("failed to price order: %w", err)
	}

	order := &models.Order{
		ClientID:      req.ClientID,
		OrderNumber:   newOrderNumber(),
		IsRush:        req.IsRush,
		DueDate:       req.DueDate,
		SubtotalCents: result.SubtotalCents,
		RushFeeCents:  result.RushFeeCents,
		TaxCents:      result.TaxCents,
		TotalCents:    result.TotalCents,
		Status:        workflow.StatusPending.String(),
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	itemData, err := s.persistLines(ctx, order, req, result)
	if err != nil {
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("pricing", pricing.Summary(result)))

	if req.IdempotencyKey != "" {
		if err := s.redis.SetIdempotencyKey(ctx, req.IdempotencyKey, order.ID, 24*time.Hour); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		ClientID:    order.ClientID,
		OrderNumber: order.OrderNumber,
		IsRush:      order.IsRush,
		TotalCents:  order.TotalCents,
		Items:       itemData,
	}

	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &CreateOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Pricing:     result,
	}, nil
}

// Quote prices an intake form without persisting anything. Because the
// pricing engine is pure, the quote matches what CreateOrder will later
// persist for the same selections.
func (s *OrderService) Quote(ctx context.Context, req *CreateOrderRequest) (*pricing.Result, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Quote")
	defer span.End()

	services, err := s.resolveServices(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := pricing.CalculateOrderPricing(s.buildOrderPricing(req, services))
	if err != nil {
		return nil, fmt.Errorf("failed to price quote: %w", err)
	}

	util.QuotesComputedTotal.Inc()
	return &result, nil
}

// GetOrder retrieves an order with its lines and tasks
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, []models.Task, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	tasks, err := s.store.GetTasksByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	return order, items, tasks, nil
}

// resolveServices validates every selected service against the catalog
func (s *OrderService) resolveServices(ctx context.Context, req *CreateOrderRequest) (map[int64]*models.Service, error) {
	idSet := make(map[int64]bool)
	var ids []int64
	for _, g := range req.Garments {
		for _, sel := range g.Services {
			if !idSet[sel.ServiceID] {
				idSet[sel.ServiceID] = true
				ids = append(ids, sel.ServiceID)
			}
		}
	}

	services, err := s.store.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	serviceMap := make(map[int64]*models.Service, len(services))
	for i := range services {
		serviceMap[services[i].ID] = &services[i]
	}

	for id := range idSet {
		if _, ok := serviceMap[id]; !ok {
			return nil, fmt.Errorf("service not in catalog: %d", id)
		}
	}

	return serviceMap, nil
}

// buildOrderPricing flattens the intake form into pricing engine input.
// Garment IDs are not assigned until persistence, so lines carry the
// garment's ordinal position on the form; breakdown order matches form order.
func (s *OrderService) buildOrderPricing(req *CreateOrderRequest, services map[int64]*models.Service) pricing.OrderPricing {
	var items []pricing.Item
	for gi, g := range req.Garments {
		for _, sel := range g.Services {
			items = append(items, pricing.Item{
				GarmentID:        int64(gi + 1),
				ServiceID:        sel.ServiceID,
				Quantity:         sel.Quantity,
				BasePriceCents:   services[sel.ServiceID].BasePriceCents,
				CustomPriceCents: sel.CustomPriceCents,
			})
		}
	}

	return pricing.OrderPricing{
		IsRush:             req.IsRush,
		Items:              items,
		Config:             s.pricingCfg,
		RushThresholdCents: s.rushThreshold,
	}
}

// persistLines writes garments, order lines and one pending task per line
func (s *OrderService) persistLines(ctx context.Context, order *models.Order, req *CreateOrderRequest, result pricing.Result) ([]models.OrderItemData, error) {
	var itemData []models.OrderItemData
	line := 0

	for _, g := range req.Garments {
		garment := &models.Garment{
			OrderID: order.ID,
			Type:    g.Type,
			Color:   g.Color,
			Notes:   g.Notes,
		}
		if err := s.store.CreateGarment(ctx, garment); err != nil {
			return nil, fmt.Errorf("failed to create garment: %w", err)
		}

		for _, sel := range g.Services {
			unitPrice := result.Breakdown.Items[line].UnitPriceCents
			line++

			item := &models.OrderItem{
				OrderID:          order.ID,
				GarmentID:        garment.ID,
				ServiceID:        sel.ServiceID,
				Quantity:         sel.Quantity,
				UnitPriceCents:   unitPrice,
				CustomPriceCents: sel.CustomPriceCents,
			}
			if err := s.store.CreateOrderItem(ctx, item); err != nil {
				return nil, fmt.Errorf("failed to create order item: %w", err)
			}

			task := &models.Task{
				OrderID:   order.ID,
				GarmentID: garment.ID,
				ServiceID: sel.ServiceID,
				Stage:     workflow.StagePending,
			}
			if err := s.store.CreateTask(ctx, task); err != nil {
				return nil, fmt.Errorf("failed to create task: %w", err)
			}

			itemData = append(itemData, models.OrderItemData{
				GarmentID:      garment.ID,
				ServiceID:      sel.ServiceID,
				Quantity:       sel.Quantity,
				UnitPriceCents: unitPrice,
			})
		}
	}

	return itemData, nil
}

// newOrderNumber generates a short human-facing order number
func newOrderNumber() string {
	return "HC-" + strings.ToUpper(uuid.New().String()[:8])
}
