package services

import (
	"context"
	"testing"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/TheFahmi/Laundry-Systems-sub005/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// clock is a settable time source for services under test
type clock struct{ t time.Time }

func newClock() *clock {
	return &clock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db         *gorm.DB
	clock      *clock
	orders     *OrderService
	queue      *JobQueueService
	workOrders *WorkOrderService
	catalog    *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := newClock()

	f := &fixture{
		db:         db,
		clock:      c,
		orders:     NewOrderService(db, zap.NewNop()),
		queue:      NewJobQueueService(db, zap.NewNop()),
		workOrders: NewWorkOrderService(db, zap.NewNop()),
		catalog:    NewCatalogService(db, zap.NewNop()),
	}
	f.orders.now = c.now
	f.queue.now = c.now
	f.workOrders.now = c.now
	return f
}

func (f *fixture) open(t *testing.T, orderID string, stages ...string) *models.WorkOrder {
	t.Helper()
	wo, err := f.workOrders.OpenWorkOrder(context.Background(), OpenWorkOrderInput{
		OrderID:   orderID,
		StepTypes: stages,
	})
	require.NoError(t, err)
	return wo
}

func (f *fixture) orderStatus(t *testing.T, orderID string) models.OrderStatus {
	t.Helper()
	var order models.Order
	require.NoError(t, f.db.Where("id = ?", orderID).First(&order).Error)
	return order.Status
}

func (f *fixture) reload(t *testing.T, workOrderID string) *models.WorkOrder {
	t.Helper()
	wo, err := f.workOrders.GetWorkOrder(context.Background(), workOrderID)
	require.NoError(t, err)
	return wo
}
