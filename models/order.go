package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a customer's laundry request
type Order struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;<-:create" json:"order_number"` // immutable once assigned
	CustomerID  string      `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	TotalAmount float64     `gorm:"not null;default:0" json:"total_amount"`
	TotalWeight float64     `gorm:"not null;default:0" json:"total_weight"`
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`
	IsDelivery  bool        `gorm:"not null;default:false" json:"is_delivery"`
	Notes       *string     `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns an id when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = newID()
	}
	return nil
}

// OrderItem is one service line of an order
type OrderItem struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string          `gorm:"not null;index" json:"order_id"`
	ServiceID string          `gorm:"not null;index" json:"service_id"`
	Service   *LaundryService `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	WeightKg  float64         `gorm:"not null;default:0" json:"weight_kg"`
	UnitPrice float64         `gorm:"not null" json:"unit_price"`
	Subtotal  float64         `gorm:"not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns an id when none is set
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}
