package services

import (
	"context"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService handles order intake and customer-facing status changes
type OrderService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates an order service backed by db
func NewOrderService(db *gorm.DB, logger *zap.Logger) *OrderService {
	return &OrderService{db: db, logger: logger, now: utcNow}
}

// OrderItemInput is one requested service line
type OrderItemInput struct {
	ServiceID string
	Quantity  int
	WeightKg  float64
}

// CreateOrderInput holds the fields of a new order
type CreateOrderInput struct {
	CustomerID string
	Items      []OrderItemInput
	IsDelivery bool
	Notes      *string
}

// CreateOrder prices the requested lines and stores a pending order
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrInvalidInput.Withf("An order needs at least one item")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidInput.Withf("Item quantity must be greater than zero")
		}
		if item.WeightKg < 0 {
			return nil, ErrInvalidInput.Withf("Item weight cannot be negative")
		}
	}

	var order models.Order
	err := retryOnDuplicate(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var customer models.Customer
			if err := tx.Where("id = ?", in.CustomerID).First(&customer).Error; err != nil {
				if isNotFound(err) {
					return ErrCustomerNotFound
				}
				return err
			}

			items, totalAmount, totalWeight, err := priceItems(tx, in.Items)
			if err != nil {
				return err
			}

			now := s.now()
			order = models.Order{
				OrderNumber: generateNumber("ORD", now),
				CustomerID:  customer.ID,
				Items:       items,
				TotalAmount: totalAmount,
				TotalWeight: totalWeight,
				Status:      models.OrderPending,
				IsDelivery:  in.IsDelivery,
				Notes:       in.Notes,
			}
			return tx.Create(&order).Error
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return s.GetOrder(ctx, order.ID)
}

// priceItems resolves each line's service and computes its subtotal
func priceItems(tx *gorm.DB, inputs []OrderItemInput) ([]models.OrderItem, float64, float64, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	var totalAmount, totalWeight float64

	for _, in := range inputs {
		var service models.LaundryService
		if err := tx.Where("id = ?", in.ServiceID).First(&service).Error; err != nil {
			if isNotFound(err) {
				return nil, 0, 0, ErrServiceNotFound.Withf("Service %s not found", in.ServiceID)
			}
			return nil, 0, 0, err
		}
		if !service.Active {
			return nil, 0, 0, ErrServiceInactive.Withf("Service %q is not available", service.Name)
		}

		var subtotal float64
		if service.PricedByWeight() {
			if in.WeightKg <= 0 {
				return nil, 0, 0, ErrInvalidInput.Withf("Service %q is priced per kg and needs a weight", service.Name)
			}
			subtotal = in.WeightKg * service.UnitPrice
		} else {
			subtotal = float64(in.Quantity) * service.UnitPrice
		}

		items = append(items, models.OrderItem{
			ServiceID: service.ID,
			Quantity:  in.Quantity,
			WeightKg:  in.WeightKg,
			UnitPrice: service.UnitPrice,
			Subtotal:  roundMoney(subtotal),
		})
		totalAmount += subtotal
		totalWeight += in.WeightKg
	}

	return items, roundMoney(totalAmount), roundMoney(totalWeight), nil
}

// GetOrder loads an order with its customer and priced lines
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Service").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// OrderListParams filters ListOrders
type OrderListParams struct {
	Status     string
	CustomerID string
	Page       int
	Size       int
}

// ListOrders returns a page of orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, params OrderListParams) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != "" {
		status, err := models.ParseOrderStatus(params.Status)
		if err != nil {
			return nil, 0, ErrInvalidInput.Withf("%s", err.Error())
		}
		query = query.Where("status = ?", status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := NormalizePage(params.Page, params.Size)
	var orders []models.Order
	err := query.Preload("Customer").
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&orders).Error
	return orders, total, err
}

// CancelOrder cancels an order that has not been delivered and has no open work order
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id)
		if err != nil {
			return err
		}
		if order.Status == models.OrderCancelled || order.Status == models.OrderDelivered {
			return ErrInvalidOrderStatus.Withf("Order in status %q cannot be cancelled", order.Status)
		}

		open, err := countOpenWorkOrders(tx, order.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrOpenWorkOrderExists.Withf("Close the order's open work order before cancelling it")
		}

		return setOrderStatus(tx, order, models.OrderCancelled)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", zap.String("order_id", id))
	return s.GetOrder(ctx, id)
}

// MarkDelivered hands a ready order over to the customer
func (s *OrderService) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id)
		if err != nil {
			return err
		}
		if order.Status != models.OrderReady {
			return ErrInvalidOrderStatus.Withf("Only ready orders can be delivered (status %q)", order.Status)
		}
		return setOrderStatus(tx, order, models.OrderDelivered)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order delivered", zap.String("order_id", id))
	return s.GetOrder(ctx, id)
}

func lockOrder(tx *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := forUpdate(tx).Where("id = ?", id).First(&order).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// setOrderStatus updates the status only if nobody changed it since it was read
func setOrderStatus(tx *gorm.DB, order *models.Order, status models.OrderStatus) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrInvalidOrderStatus.Withf("Order status changed concurrently")
	}
	order.Status = status
	return nil
}

// promoteOrder raises the order's status to target; it never lowers the
// status and never touches a cancelled order
func promoteOrder(tx *gorm.DB, orderID string, target models.OrderStatus) (bool, error) {
	order, err := lockOrder(tx, orderID)
	if err != nil {
		return false, err
	}
	if !order.Status.Before(target) {
		return false, nil
	}
	if err := setOrderStatus(tx, order, target); err != nil {
		return false, err
	}
	return true, nil
}

func countOpenWorkOrders(tx *gorm.DB, orderID string) (int64, error) {
	var count int64
	err := tx.Model(&models.WorkOrder{}).
		Where("order_id = ? AND status IN ?", orderID, []models.WorkOrderStatus{models.WorkOrderPending, models.WorkOrderInProgress}).
		Count(&count).Error
	return count, err
}
