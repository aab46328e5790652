package worker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/blinderbots/hottecouture-sub000/internal/broker"
	"github.com/blinderbots/hottecouture-sub000/internal/models"
	"github.com/blinderbots/hottecouture-sub000/internal/service"
	"github.com/blinderbots/hottecouture-sub000/internal/workflow"

	"github.com/segmentio/kafka-go"
)

// StatusWorker recomputes derived order status in the background whenever a
// task moves on the board.
type StatusWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewStatusWorker creates a new status worker
func NewStatusWorker(consumer *broker.Consumer, boardService *service.BoardService) *StatusWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnTaskStageChanged(boardService.HandleTaskStageChanged)

	return &StatusWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *StatusWorker) Start(ctx context.Context) error {
	log.Println("Starting status worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StatusWorker) Stop() error {
	log.Println("Stopping status worker...")
	return w.consumer.Close()
}

// NotificationWorker logs client-facing notifications for status changes and
// payments. Actual delivery (SMS, email) lives outside this service; the log
// line is the integration point for now.
type NotificationWorker struct {
	consumer *broker.Consumer
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	return &NotificationWorker{consumer: consumer}
}

// Start starts the notification worker
func (nw *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")

	return nw.consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		eventType, err := broker.MessageEventType(msg)
		if err != nil {
			log.Printf("Failed to read event type: %v", err)
			return err
		}

		switch eventType {
		case models.EventTypeOrderStatusChanged:
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("Failed to unmarshal OrderStatusChanged event: %v", err)
				return err
			}
			if event.Status == workflow.StatusReady || event.Status == workflow.StatusDelivered {
				log.Printf("Notify client: order %d is %s", event.OrderID, event.Status)
			}

		case models.EventTypePaymentRecorded:
			var event models.PaymentRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("Failed to unmarshal PaymentRecorded event: %v", err)
				return err
			}
			if event.BalanceCents <= 0 {
				log.Printf("Notify client: order %d is paid in full", event.OrderID)
			}
		}

		return nil
	})
}

// Stop stops the notification worker
func (nw *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return nw.consumer.Close()
}
