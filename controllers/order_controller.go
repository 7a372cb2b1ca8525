package controllers

import (
	"net/http"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/gin-gonic/gin"
)

// OrderItemRequest is one service line of a new order
type OrderItemRequest struct {
	ServiceID string  `json:"service_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	WeightKg  float64 `json:"weight_kg" binding:"gte=0"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	IsDelivery bool               `json:"is_delivery"`
	Notes      *string            `json:"notes"`
}

// ListOrdersQuery holds the filters of GET /api/v1/orders
type ListOrdersQuery struct {
	Status     string `form:"status" binding:"omitempty,order_status"`
	CustomerID string `form:"customer_id"`
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.GetDB(), config.GetLogger())
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	items := make([]services.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = services.OrderItemInput{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			WeightKg:  item.WeightKg,
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := orderService().CreateOrder(ctx, services.CreateOrderInput{
		CustomerID: req.CustomerID,
		Items:      items,
		IsDelivery: req.IsDelivery,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders
func ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, err)
		return
	}
	page, size := pageParams(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	orders, total, err := orderService().ListOrders(ctx, services.OrderListParams{
		Status:     query.Status,
		CustomerID: query.CustomerID,
		Page:       page,
		Size:       size,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, orders, total, page, size)
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := orderService().GetOrder(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, order)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := orderService().CancelOrder(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, order)
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver
func DeliverOrder(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	order, err := orderService().MarkDelivered(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, order)
}
