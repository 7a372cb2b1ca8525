package controllers

import (
	"net/http"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ScheduleOrderRequest represents the request body for queueing an order on a day
type ScheduleOrderRequest struct {
	OrderID             string     `json:"order_id" binding:"required"`
	ScheduledDate       string     `json:"scheduled_date" binding:"required,datetime=2006-01-02"`
	EstimatedCompletion *time.Time `json:"estimated_completion_time"`
	Notes               *string    `json:"notes"`
}

// ReorderQueueRequest represents the request body for reordering a day's queue
type ReorderQueueRequest struct {
	Date    string   `json:"date" binding:"required,datetime=2006-01-02"`
	SlotIDs []string `json:"slot_ids" binding:"required"`
}

// RecordCompletionRequest represents the request body for finishing a slot
type RecordCompletionRequest struct {
	CompletedAt *time.Time `json:"completed_at"`
}

func jobQueueService() *services.JobQueueService {
	return services.NewJobQueueService(config.GetDB(), config.GetLogger())
}

// ScheduleOrder handles POST /api/v1/queue
func ScheduleOrder(c *gin.Context) {
	var req ScheduleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	date, _ := time.Parse(dateLayout, req.ScheduledDate)

	ctx, cancel := requestContext(c)
	defer cancel()

	slot, err := jobQueueService().ScheduleOrder(ctx, services.ScheduleInput{
		OrderID:             req.OrderID,
		Date:                date,
		EstimatedCompletion: req.EstimatedCompletion,
		Notes:               req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, slot)
}

// ListQueue handles GET /api/v1/queue?date=YYYY-MM-DD; the date defaults to today
func ListQueue(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must use the YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	slots, err := jobQueueService().ListSlots(ctx, date)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, slots)
}

// ReorderQueue handles PUT /api/v1/queue/reorder (admins only)
func ReorderQueue(c *gin.Context) {
	var req ReorderQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	date, _ := time.Parse(dateLayout, req.Date)

	ctx, cancel := requestContext(c)
	defer cancel()

	slots, err := jobQueueService().Reorder(ctx, date, req.SlotIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, slots)
}

// RecordQueueCompletion handles POST /api/v1/queue/:id/complete
func RecordQueueCompletion(c *gin.Context) {
	var req RecordCompletionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondValidationError(c, err)
		return
	}
	completedAt := time.Now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	slot, err := jobQueueService().RecordCompletion(ctx, c.Param("id"), completedAt)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, slot)
}

// RemoveQueueSlot handles DELETE /api/v1/queue/:id (admins only)
func RemoveQueueSlot(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := jobQueueService().RemoveSlot(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Queue slot removed",
	})
}
