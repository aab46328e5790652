package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/service"
	"github.com/blinderbots/hottecouture-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orderService   *service.OrderService
	boardService   *service.BoardService
	paymentService *service.PaymentService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orderService *service.OrderService,
	boardService *service.BoardService,
	paymentService *service.PaymentService,
) *Handler {
	return &Handler{
		orderService:   orderService,
		boardService:   boardService,
		paymentService: paymentService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", h.createOrder)
		v1.POST("/orders/quote", h.quote)
		v1.GET("/orders/:id", h.getOrder)
		v1.GET("/orders/:id/status", h.orderStatus)
		v1.GET("/orders/:id/alerts", h.orderAlerts)
		v1.POST("/orders/:id/payments", h.recordPayment)
		v1.GET("/board", h.board)
		v1.POST("/tasks/:id/transition", h.transitionTask)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createOrder handles intake submissions
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// quote prices an intake form without persisting it
func (h *Handler) quote(c *gin.Context) {
	var req service.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.orderService.Quote(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to price quote",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, items, tasks, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
		"tasks": tasks,
	})
}

// orderStatus returns the derived status, progress, on-track flag and alerts
func (h *Handler) orderStatus(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	info, err := h.boardService.OrderProgress(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, info)
}

// orderAlerts returns just the alert list for an order
func (h *Handler) orderAlerts(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	info, err := h.boardService.OrderProgress(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": info.OrderID,
		"on_track": info.OnTrack,
		"alerts":   info.Alerts,
	})
}

// recordPayment records money received against an order
func (h *Handler) recordPayment(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		AmountCents int64  `json:"amount_cents" binding:"required"`
		Method      string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.paymentService.RecordPayment(c.Request.Context(), orderID, req.AmountCents, req.Method)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrUnknownMethod) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":   "Failed to record payment",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// board returns every task grouped into kanban columns
func (h *Handler) board(c *gin.Context) {
	columns, err := h.boardService.BoardSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load board",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// transitionTask moves a task to a new stage
func (h *Handler) transitionTask(c *gin.Context) {
	taskID, ok := pathID(c)
	if !ok {
		return
	}

	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	req.TaskID = taskID

	task, err := h.boardService.TransitionTask(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIllegalTransition), errors.Is(err, service.ErrReasonRequired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Transition rejected",
				"details": err.Error(),
			})
		case errors.Is(err, service.ErrTaskBusy):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Task busy",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to transition task",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
