package workflow

import (
	"fmt"
	"time"
)

// OrderMeta is the slice of order data the workflow engine needs for on-track
// evaluation and alerting.
type OrderMeta struct {
	OrderNumber string     `json:"order_number"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsRush      bool       `json:"is_rush"`
}

// AlertType classifies an alert's severity.
type AlertType string

const (
	AlertError   AlertType = "error"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

// Alert is one board notification for an order.
type Alert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
}

// IsOrderOnTrack evaluates whether an order is pacing to meet its due date as
// of now. Orders without a due date are always on track. Rush orders are on
// track only while someone is actively working a task. Otherwise the required
// progress tightens as the due date approaches.
func IsOrderOnTrack(order OrderMeta, stages []Stage, now time.Time) bool {
	if order.DueDate == nil {
		return true
	}

	if order.IsRush {
		for _, s := range stages {
			if s == StageWorking {
				return true
			}
		}
		return false
	}

	progress := Progress(stages)
	daysLeft := order.DueDate.Sub(now).Hours() / 24

	switch {
	case daysLeft > 3:
		return progress > 0
	case daysLeft > 1:
		return progress >= 25
	default:
		return progress >= 50
	}
}

// Alerts generates the board notifications for an order. Rules are evaluated
// in a fixed order so emission is deterministic; several alerts may fire at
// once.
func Alerts(order OrderMeta, stages []Stage, now time.Time) []Alert {
	var alerts []Alert

	if order.DueDate != nil {
		due := *order.DueDate
		if due.Before(now) {
			alerts = append(alerts, Alert{
				Type:    AlertError,
				Message: fmt.Sprintf("Order %s is overdue", order.OrderNumber),
			})
		} else if due.Sub(now) <= 24*time.Hour {
			hours := int(due.Sub(now).Hours())
			alerts = append(alerts, Alert{
				Type:    AlertWarning,
				Message: fmt.Sprintf("Order %s is due in %d hour(s)", order.OrderNumber, hours),
			})
		}
	}

	if order.IsRush {
		working := false
		for _, s := range stages {
			if s == StageWorking {
				working = true
				break
			}
		}
		if !working {
			alerts = append(alerts, Alert{
				Type:    AlertWarning,
				Message: fmt.Sprintf("Rush order %s has no task in progress", order.OrderNumber),
			})
		}
	}

	pending, done := 0, 0
	for _, s := range stages {
		switch s {
		case StagePending:
			pending++
		case StageDone:
			done++
		}
	}
	if pending > 0 {
		alerts = append(alerts, Alert{
			Type:    AlertInfo,
			Message: fmt.Sprintf("%d task(s) not started yet", pending),
		})
	}
	if done > 0 {
		alerts = append(alerts, Alert{
			Type:    AlertInfo,
			Message: fmt.Sprintf("%d task(s) awaiting approval", done),
		})
	}

	return alerts
}
