package controllers

import (
	"net/http"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/gin-gonic/gin"
)

// CreateCustomerRequest represents the request body for registering a customer
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// CreateServiceRequest represents the request body for adding a catalog service
type CreateServiceRequest struct {
	Name      string  `json:"name" binding:"required"`
	Unit      string  `json:"unit" binding:"required,oneof=kg piece"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

func catalogService() *services.CatalogService {
	return services.NewCatalogService(config.GetDB(), config.GetLogger())
}

// CreateCustomer handles POST /api/v1/customers
func CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	customer, err := catalogService().CreateCustomer(ctx, services.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, customer)
}

// ListCustomers handles GET /api/v1/customers
func ListCustomers(c *gin.Context) {
	page, size := pageParams(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	customers, total, err := catalogService().ListCustomers(ctx, page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, customers, total, page, size)
}

// GetCustomer handles GET /api/v1/customers/:id
func GetCustomer(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	customer, err := catalogService().GetCustomer(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, customer)
}

// CreateService handles POST /api/v1/services
func CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	service, err := catalogService().CreateService(ctx, services.ServiceInput{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, service)
}

// ListServices handles GET /api/v1/services; ?all=true includes inactive entries
func ListServices(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := catalogService().ListServices(ctx, c.Query("all") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, list)
}
