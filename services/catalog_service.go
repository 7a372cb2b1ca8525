package services

import (
	"context"
	"errors"
	"strings"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService manages customers and the service catalog
type CatalogService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCatalogService creates a catalog service backed by db
func NewCatalogService(db *gorm.DB, logger *zap.Logger) *CatalogService {
	return &CatalogService{db: db, logger: logger}
}

// CustomerInput holds the fields of a new customer
type CustomerInput struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
}

// CreateCustomer registers a customer; phone numbers are unique
func (s *CatalogService) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, ErrInvalidInput.Withf("Customer name and phone are required")
	}

	customer := models.Customer{Name: name, Phone: phone, Email: in.Email, Address: in.Address}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCustomer
		}
		return nil, err
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID))
	return &customer, nil
}

// GetCustomer loads a customer by id
func (s *CatalogService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns a page of customers ordered by name
func (s *CatalogService) ListCustomers(ctx context.Context, page, size int) ([]models.Customer, int64, error) {
	page, size = NormalizePage(page, size)
	query := s.db.WithContext(ctx).Model(&models.Customer{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := query.Order("name ASC").Offset((page - 1) * size).Limit(size).Find(&customers).Error
	return customers, total, err
}

// ServiceInput holds the fields of a new catalog service
type ServiceInput struct {
	Name      string
	Unit      string
	UnitPrice float64
}

// CreateService adds an active service to the catalog
func (s *CatalogService) CreateService(ctx context.Context, in ServiceInput) (*models.LaundryService, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidInput.Withf("Service name is required")
	}
	if in.Unit != models.UnitKilogram && in.Unit != models.UnitPiece {
		return nil, ErrInvalidInput.Withf("Service unit must be %q or %q", models.UnitKilogram, models.UnitPiece)
	}
	if in.UnitPrice < 0 {
		return nil, ErrInvalidInput.Withf("Unit price cannot be negative")
	}

	service := models.LaundryService{Name: name, Unit: in.Unit, UnitPrice: roundMoney(in.UnitPrice), Active: true}
	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateService
		}
		return nil, err
	}

	s.logger.Info("Service created", zap.String("service_id", service.ID), zap.String("name", service.Name))
	return &service, nil
}

// ListServices returns the catalog ordered by name; inactive entries only when asked
func (s *CatalogService) ListServices(ctx context.Context, includeInactive bool) ([]models.LaundryService, error) {
	query := s.db.WithContext(ctx).Model(&models.LaundryService{})
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var services []models.LaundryService
	err := query.Order("name ASC").Find(&services).Error
	return services, err
}
