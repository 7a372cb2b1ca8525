package controllers

import (
	"net/http"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/middleware"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/gin-gonic/gin"
)

// OpenWorkOrderRequest represents the request body for opening a work order
type OpenWorkOrderRequest struct {
	OrderID      string   `json:"order_id" binding:"required"`
	JobQueueID   *string  `json:"job_queue_id"`
	StepTypes    []string `json:"step_types" binding:"required,min=1,dive,laundry_stage"`
	Priority     *int     `json:"priority" binding:"omitempty,min=1,max=5"`
	AssignedTo   *string  `json:"assigned_to"`
	Instructions *string  `json:"instructions"`
}

// StartStepRequest represents the optional body for starting a step
type StartStepRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

// CompleteStepRequest represents the optional body for completing a step
type CompleteStepRequest struct {
	DurationMinutes *int `json:"duration_minutes" binding:"omitempty,min=0"`
}

// ReasonRequest carries the reason for skipping a step or cancelling a work order
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListWorkOrdersQuery holds the filters of GET /api/v1/work-orders
type ListWorkOrdersQuery struct {
	Status  string `form:"status" binding:"omitempty,work_order_status"`
	OrderID string `form:"order_id"`
}

// GetWorkOrderQuery narrows the steps returned by GET /api/v1/work-orders/:id
type GetWorkOrderQuery struct {
	StepStatus string `form:"step_status" binding:"omitempty,step_status"`
}

func workOrderService() *services.WorkOrderService {
	return services.NewWorkOrderService(config.GetDB(), config.GetLogger())
}

// bindOptionalJSON binds the body when one was sent
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}

// OpenWorkOrder handles POST /api/v1/work-orders
func OpenWorkOrder(c *gin.Context) {
	var req OpenWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	wo, err := workOrderService().OpenWorkOrder(ctx, services.OpenWorkOrderInput{
		OrderID:      req.OrderID,
		JobQueueID:   req.JobQueueID,
		StepTypes:    req.StepTypes,
		Priority:     req.Priority,
		AssignedTo:   req.AssignedTo,
		Instructions: req.Instructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, wo)
}

// ListWorkOrders handles GET /api/v1/work-orders
func ListWorkOrders(c *gin.Context) {
	var query ListWorkOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, err)
		return
	}
	page, size := pageParams(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	wos, total, err := workOrderService().ListWorkOrders(ctx, services.WorkOrderListParams{
		Status:  query.Status,
		OrderID: query.OrderID,
		Page:    page,
		Size:    size,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, wos, total, page, size)
}

// GetWorkOrder handles GET /api/v1/work-orders/:id
func GetWorkOrder(c *gin.Context) {
	var query GetWorkOrderQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	wo, err := workOrderService().GetWorkOrderSteps(ctx, c.Param("id"), query.StepStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, wo)
}

// StartStep handles POST /api/v1/work-orders/:id/steps/:stepId/start.
// The acting user becomes the assignee unless the body names someone else.
func StartStep(c *gin.Context) {
	var req StartStepRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondValidationError(c, err)
		return
	}

	assignee := req.AssignedTo
	if assignee == nil {
		if user, err := middleware.GetCurrentUser(c); err == nil {
			assignee = &user.ID
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	step, err := workOrderService().AdvanceStep(ctx, c.Param("id"), c.Param("stepId"), assignee)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, step)
}

// CompleteStep handles POST /api/v1/work-order-steps/:stepId/complete
func CompleteStep(c *gin.Context) {
	var req CompleteStepRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	step, err := workOrderService().CompleteStep(ctx, c.Param("stepId"), req.DurationMinutes)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, step)
}

// SkipStep handles POST /api/v1/work-order-steps/:stepId/skip
func SkipStep(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	step, err := workOrderService().SkipStep(ctx, c.Param("stepId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, step)
}

// CancelWorkOrder handles POST /api/v1/work-orders/:id/cancel (admins only)
func CancelWorkOrder(c *gin.Context) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	wo, err := workOrderService().CancelWorkOrder(ctx, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, wo)
}
