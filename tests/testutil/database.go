package testutil

import (
	"context"
	"testing"

	"github.com/TheFahmi/Laundry-Systems-sub005/migrations"
	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory sqlite database with every migration applied
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	_, err = migrations.Up(context.Background(), db, zap.NewNop())
	require.NoError(t, err, "Failed to migrate test database")

	return db
}

// CreateStaff inserts a staff account
func CreateStaff(t *testing.T, db *gorm.DB, auth0ID, role string) models.User {
	t.Helper()
	user := models.User{
		Auth0ID: auth0ID,
		Name:    "Staff " + auth0ID,
		Email:   auth0ID + "@laundry.test",
		Role:    role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateCustomer inserts a customer with the given phone number
func CreateCustomer(t *testing.T, db *gorm.DB, phone string) models.Customer {
	t.Helper()
	customer := models.Customer{Name: "Customer " + phone, Phone: phone}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

// CreateService inserts an active catalog service
func CreateService(t *testing.T, db *gorm.DB, name, unit string, price float64) models.LaundryService {
	t.Helper()
	service := models.LaundryService{Name: name, Unit: unit, UnitPrice: price, Active: true}
	require.NoError(t, db.Create(&service).Error)
	return service
}

// CreateOrder inserts a pending order for a fresh customer
func CreateOrder(t *testing.T, db *gorm.DB, orderNumber string) models.Order {
	t.Helper()
	customer := CreateCustomer(t, db, "phone-"+orderNumber)
	order := models.Order{
		OrderNumber: orderNumber,
		CustomerID:  customer.ID,
		TotalAmount: 10,
		TotalWeight: 2,
		Status:      models.OrderPending,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}
