package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/broker"
	"github.com/blinderbots/hottecouture-sub000/internal/models"
	"github.com/blinderbots/hottecouture-sub000/internal/redisclient"
	"github.com/blinderbots/hottecouture-sub000/internal/store"
	"github.com/blinderbots/hottecouture-sub000/internal/util"
	"github.com/blinderbots/hottecouture-sub000/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrIllegalTransition is returned when the requested move is not in the
	// transition table.
	ErrIllegalTransition = errors.New("illegal stage transition")
	// ErrReasonRequired is returned when a backward move is requested
	// without a correction reason.
	ErrReasonRequired = errors.New("transition requires a reason")
	// ErrTaskBusy is returned when another writer holds the task lock.
	ErrTaskBusy = errors.New("task is being updated by another writer")
)

const taskLockTTL = 5 * time.Second

// BoardService drives the kanban board: it applies task stage transitions,
// auto-advances finished work, and serves derived order status, progress and
// alerts.
type BoardService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewBoardService creates a new board service
func NewBoardService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *BoardService {
	return &BoardService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// TransitionRequest asks to move one task to a new stage
type TransitionRequest struct {
	TaskID    int64          `json:"task_id"`
	To        workflow.Stage `json:"to" binding:"required"`
	Reason    string         `json:"reason,omitempty"`
	ChangedBy string         `json:"changed_by,omitempty"`
}

// TransitionTask applies a board move. Moves not in the transition table are
// rejected, backward moves must carry a reason, and when a task lands in done
// while every sibling is also finished the whole set auto-advances to ready.
func (bs *BoardService) TransitionTask(ctx context.Context, req *TransitionRequest) (*models.Task, error) {
	ctx, span := util.StartSpan(ctx, "BoardService.TransitionTask")
	defer span.End()

	if !req.To.IsValid() {
		return nil, fmt.Errorf("unknown stage %q: %w", req.To, ErrIllegalTransition)
	}

	locked, err := bs.redis.AcquireTaskLock(ctx, req.TaskID, taskLockTTL)
	if err != nil {
		bs.logger.Warn("Task lock unavailable, continuing unlocked", zap.Error(err))
	} else if !locked {
		return nil, ErrTaskBusy
	} else {
		defer func() {
			if err := bs.redis.ReleaseTaskLock(context.Background(), req.TaskID); err != nil {
				bs.logger.Warn("Failed to release task lock", zap.Error(err))
			}
		}()
	}

	task, err := bs.store.GetTaskByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	rule, ok := workflow.TransitionFor(task.Stage, req.To)
	if !ok {
		util.IllegalTransitionsTotal.WithLabelValues(task.Stage.String(), req.To.String()).Inc()
		return nil, fmt.Errorf("%s -> %s: %w", task.Stage, req.To, ErrIllegalTransition)
	}
	if rule.RequiresReason && req.Reason == "" {
		return nil, fmt.Errorf("%s -> %s: %w", task.Stage, req.To, ErrReasonRequired)
	}

	if err := bs.applyTransition(ctx, task, req.To, req.Reason, req.ChangedBy); err != nil {
		return nil, err
	}

	if req.To == workflow.StageDone {
		if err := bs.autoAdvance(ctx, task.OrderID, req.ChangedBy); err != nil {
			bs.logger.Error("Auto-advance failed", zap.Int64("order_id", task.OrderID), zap.Error(err))
		}
	}

	return bs.store.GetTaskByID(ctx, req.TaskID)
}

// applyTransition writes the stage change, invalidates the status cache and
// publishes the event. Status derivation itself happens in the worker.
func (bs *BoardService) applyTransition(ctx context.Context, task *models.Task, to workflow.Stage, reason, changedBy string) error {
	change := &models.StageChange{
		TaskID:    task.ID,
		FromStage: task.Stage,
		ToStage:   to,
		Reason:    reason,
		ChangedBy: changedBy,
	}

	if err := bs.store.UpdateTaskStageTx(ctx, change); err != nil {
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	util.TaskTransitionsTotal.WithLabelValues(task.Stage.String(), to.String()).Inc()

	if err := bs.redis.InvalidateOrderStatus(ctx, task.OrderID); err != nil {
		bs.logger.Warn("Failed to invalidate status cache", zap.Int64("order_id", task.OrderID), zap.Error(err))
	}

	bs.logger.Info("Task transitioned",
		zap.Int64("task_id", task.ID),
		zap.String("from", task.Stage.String()),
		zap.String("to", to.String()))

	event := &models.TaskStageChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeTaskStageChanged,
			Timestamp: time.Now(),
		},
		OrderID:   task.OrderID,
		TaskID:    task.ID,
		FromStage: task.Stage,
		ToStage:   to,
		Reason:    reason,
		ChangedBy: changedBy,
	}

	if err := bs.eventPublisher.PublishTaskStageChanged(ctx, event); err != nil {
		bs.logger.Error("Failed to publish TaskStageChanged event", zap.Error(err))
	}

	return nil
}

// autoAdvance moves every done task of an order to ready once all sibling
// tasks are finished (the done -> ready transition is tagged auto-advance).
func (bs *BoardService) autoAdvance(ctx context.Context, orderID int64, changedBy string) error {
	tasks, err := bs.store.GetTasksByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	for _, t := range tasks {
		switch t.Stage {
		case workflow.StageDone, workflow.StageReady, workflow.StageDelivered:
		default:
			return nil
		}
	}

	for i := range tasks {
		t := tasks[i]
		if t.Stage != workflow.StageDone {
			continue
		}
		if !workflow.IsTransitionAllowed(t.Stage, workflow.StageReady) {
			continue
		}
		if err := bs.applyTransition(ctx, &t, workflow.StageReady, "", changedBy); err != nil {
			return err
		}
	}

	return nil
}

// HandleTaskStageChanged is the consumer-side recompute: whenever a task
// moves, the order's derived status is recomputed from its task stages, the
// cache and the denormalized status column are refreshed, and a status event
// is published when the aggregate actually moved. Idempotent per event ID.
func (bs *BoardService) HandleTaskStageChanged(ctx context.Context, event *models.TaskStageChangedEvent) error {
	ctx, span := util.StartOrderSpan(ctx, "BoardService.HandleTaskStageChanged", event.OrderID)
	defer span.End()

	processed, err := bs.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		bs.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	order, err := bs.store.GetOrderByID(ctx, event.OrderID)
	if err != nil {
		return err
	}

	tasks, err := bs.store.GetTasksByOrderID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	stages := taskStages(tasks)

	status := workflow.DeriveOrderStatus(stages)
	progress := workflow.Progress(stages)
	util.StatusDerivationsTotal.Inc()

	if err := bs.store.UpdateOrderStatus(ctx, event.OrderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if err := bs.redis.SetOrderStatus(ctx, event.OrderID, redisclient.CachedStatus{Status: status, Progress: progress}); err != nil {
		bs.logger.Warn("Failed to refresh status cache", zap.Error(err))
	}

	if order.Status != status.String() {
		bs.logger.Info("Order status changed",
			zap.Int64("order_id", event.OrderID),
			zap.String("from", order.Status),
			zap.String("to", status.String()))

		statusEvent := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:  event.OrderID,
			Status:   status,
			Progress: progress,
		}
		if err := bs.eventPublisher.PublishOrderStatusChanged(ctx, statusEvent); err != nil {
			bs.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	if err := bs.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		bs.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	return nil
}

// ProgressInfo is the order-status surface rendered by the board UI
type ProgressInfo struct {
	OrderID  int64            `json:"order_id"`
	Status   workflow.Status  `json:"status"`
	Progress int              `json:"progress"`
	OnTrack  bool             `json:"on_track"`
	Alerts   []workflow.Alert `json:"alerts"`
}

// OrderProgress returns the derived status, progress, on-track flag and
// alerts for an order. Status and progress come from the cache when fresh
// (fast path) and are re-derived from the task stages otherwise; alerts are
// always evaluated fresh because they depend on the clock.
func (bs *BoardService) OrderProgress(ctx context.Context, orderID int64) (*ProgressInfo, error) {
	ctx, span := util.StartOrderSpan(ctx, "BoardService.OrderProgress", orderID)
	defer span.End()

	order, err := bs.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	tasks, err := bs.store.GetTasksByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	stages := taskStages(tasks)

	var status workflow.Status
	var progress int
	if cached, err := bs.redis.GetOrderStatus(ctx, orderID); err == nil && cached != nil {
		status, progress = cached.Status, cached.Progress
	} else {
		if err != nil {
			bs.logger.Warn("Status cache read failed, deriving", zap.Error(err))
		}
		status = workflow.DeriveOrderStatus(stages)
		progress = workflow.Progress(stages)
		util.StatusDerivationsTotal.Inc()

		if err := bs.redis.SetOrderStatus(ctx, orderID, redisclient.CachedStatus{Status: status, Progress: progress}); err != nil {
			bs.logger.Warn("Failed to cache derived status", zap.Error(err))
		}
	}

	meta := workflow.OrderMeta{
		OrderNumber: order.OrderNumber,
		DueDate:     order.DueDate,
		IsRush:      order.IsRush,
	}
	now := time.Now()

	alerts := workflow.Alerts(meta, stages, now)
	for _, a := range alerts {
		util.AlertsEmittedTotal.WithLabelValues(string(a.Type)).Inc()
	}

	return &ProgressInfo{
		OrderID:  orderID,
		Status:   status,
		Progress: progress,
		OnTrack:  workflow.IsOrderOnTrack(meta, stages, now),
		Alerts:   alerts,
	}, nil
}

// BoardColumn is one kanban column with its cards
type BoardColumn struct {
	Stage workflow.Stage `json:"stage"`
	Tasks []models.Task  `json:"tasks"`
}

// BoardSnapshot returns every task grouped into board columns
func (bs *BoardService) BoardSnapshot(ctx context.Context) ([]BoardColumn, error) {
	ctx, span := util.StartSpan(ctx, "BoardService.BoardSnapshot")
	defer span.End()

	columns := make([]BoardColumn, 0, len(workflow.Stages))
	for _, stage := range workflow.Stages {
		tasks, err := bs.store.GetTasksByStage(ctx, stage)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s column: %w", stage, err)
		}
		columns = append(columns, BoardColumn{Stage: stage, Tasks: tasks})
	}
	return columns, nil
}

func taskStages(tasks []models.Task) []workflow.Stage {
	stages := make([]workflow.Stage, len(tasks))
	for i, t := range tasks {
		stages[i] = t.Stage
	}
	return stages
}
