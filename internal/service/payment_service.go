package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/broker"
	"github.com/blinderbots/hottecouture-sub000/internal/models"
	"github.com/blinderbots/hottecouture-sub000/internal/pricing"
	"github.com/blinderbots/hottecouture-sub000/internal/store"
	"github.com/blinderbots/hottecouture-sub000/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidAmount is returned for a non-positive payment amount.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrUnknownMethod is returned for an unrecognized payment method.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// PaymentService records money received against orders and tracks the
// balance due. Provider integration is out of scope; this is fee arithmetic
// against the persisted totals only.
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// RecordPaymentResponse reports the recorded payment and remaining balance
type RecordPaymentResponse struct {
	Payment      models.Payment `json:"payment"`
	BalanceCents int64          `json:"balance_cents"`
	Balance      string         `json:"balance"`
}

// RecordPayment records a payment against an order and returns the new
// balance. Overpayment is allowed (a negative balance is a credit).
func (ps *PaymentService) RecordPayment(ctx context.Context, orderID, amountCents int64, method string) (*RecordPaymentResponse, error) {
	ctx, span := util.StartOrderSpan(ctx, "PaymentService.RecordPayment", orderID)
	defer span.End()

	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	switch method {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodEtrans:
	default:
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownMethod)
	}

	order, err := ps.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:     orderID,
		AmountCents: amountCents,
		Method:      method,
	}

	if err := ps.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	util.PaymentsRecordedTotal.Inc()

	paid, err := ps.store.SumPaymentsByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	balance := order.TotalCents - paid

	util.OrderLogger(orderID).Info("Payment recorded",
		zap.String("amount", pricing.FormatCurrency(amountCents)),
		zap.String("balance", pricing.FormatCurrency(balance)))

	event := &models.PaymentRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentRecorded,
			Timestamp: time.Now(),
		},
		OrderID:      orderID,
		PaymentID:    payment.ID,
		AmountCents:  amountCents,
		BalanceCents: balance,
	}

	if err := ps.eventPublisher.PublishPaymentRecorded(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentRecorded event", zap.Error(err))
	}

	return &RecordPaymentResponse{
		Payment:      *payment,
		BalanceCents: balance,
		Balance:      pricing.FormatCurrency(balance),
	}, nil
}

// Balance returns the remaining cents due on an order
func (ps *PaymentService) Balance(ctx context.Context, orderID int64) (int64, error) {
	order, err := ps.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return 0, err
	}

	paid, err := ps.store.SumPaymentsByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}

	return order.TotalCents - paid, nil
}
