package services

import (
	"context"
	"testing"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/TheFahmi/Laundry-Systems-sub005/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) schedule(t *testing.T, orderID string, day time.Time) *models.DailyJobQueue {
	t.Helper()
	slot, err := f.queue.ScheduleOrder(context.Background(), ScheduleInput{OrderID: orderID, Date: day})
	require.NoError(t, err)
	return slot
}

func positions(t *testing.T, f *fixture, day time.Time) map[string]int {
	t.Helper()
	slots, err := f.queue.ListSlots(context.Background(), day)
	require.NoError(t, err)
	out := make(map[string]int, len(slots))
	for _, slot := range slots {
		out[slot.ID] = slot.QueuePosition
	}
	return out
}

func TestScheduleOrderAppendsDensePositions(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	a := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-1").ID, day)
	b := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-2").ID, day.Add(9*time.Hour))
	c := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-3").ID, day)

	assert.Equal(t, 1, a.QueuePosition)
	assert.Equal(t, 2, b.QueuePosition)
	assert.Equal(t, 3, c.QueuePosition)
	assert.True(t, b.ScheduledDate.Equal(day), "time of day is dropped")

	slots, err := f.queue.ListSlots(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{slots[0].ID, slots[1].ID, slots[2].ID})
	require.NotNil(t, slots[0].Order)
	assert.Equal(t, "ORD-1", slots[0].Order.OrderNumber)
}

func TestScheduleOrderDatesAreIndependent(t *testing.T) {
	f := newFixture(t)
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	order := testutil.CreateOrder(t, f.db, "ORD-1")

	f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-2").ID, monday)
	first := f.schedule(t, order.ID, monday)
	second := f.schedule(t, order.ID, monday.AddDate(0, 0, 1))

	assert.Equal(t, 2, first.QueuePosition)
	assert.Equal(t, 1, second.QueuePosition, "a new date starts its own queue")
}

func TestScheduleOrderRejectsDuplicateSlot(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	order := testutil.CreateOrder(t, f.db, "ORD-1")
	f.schedule(t, order.ID, day)

	_, err := f.queue.ScheduleOrder(context.Background(), ScheduleInput{OrderID: order.ID, Date: day.Add(15 * time.Hour)})
	assert.ErrorIs(t, err, ErrDuplicateSlot)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Len(t, positions(t, f, day), 1)
}

func TestScheduleOrderRejectsUnknownAndCancelledOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	_, err := f.queue.ScheduleOrder(ctx, ScheduleInput{OrderID: "missing", Date: day})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order := testutil.CreateOrder(t, f.db, "ORD-1")
	require.NoError(t, f.db.Model(&order).Update("status", models.OrderCancelled).Error)
	_, err = f.queue.ScheduleOrder(ctx, ScheduleInput{OrderID: order.ID, Date: day})
	assert.ErrorIs(t, err, ErrOrderCancelled)
}

func TestReorderAssignsGivenOrder(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	a := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-1").ID, day)
	b := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-2").ID, day)
	c := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-3").ID, day)

	slots, err := f.queue.Reorder(context.Background(), day, []string{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, c.ID, slots[0].ID)
	assert.Equal(t, a.ID, slots[1].ID)
	assert.Equal(t, b.ID, slots[2].ID)
	assert.Equal(t, map[string]int{c.ID: 1, a.ID: 2, b.ID: 3}, positions(t, f, day))
}

func TestReorderRejectsMismatchedSets(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	a := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-1").ID, day)
	b := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-2").ID, day)
	elsewhere := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-3").ID, day.AddDate(0, 0, 1))
	before := positions(t, f, day)

	cases := map[string][]string{
		"missing slot":   {a.ID},
		"foreign slot":   {a.ID, elsewhere.ID},
		"extra slot":     {a.ID, b.ID, elsewhere.ID},
		"repeated slot":  {a.ID, a.ID},
		"unknown id":     {a.ID, "missing"},
		"empty sequence": {},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.queue.Reorder(context.Background(), day, ids)
			assert.ErrorIs(t, err, ErrInvalidSlotSet)
			assert.Equal(t, KindInvalidSet, KindOf(err))
		})
	}
	assert.Equal(t, before, positions(t, f, day))
}

func TestReorderEmptyDate(t *testing.T) {
	f := newFixture(t)

	slots, err := f.queue.Reorder(context.Background(), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRemoveSlotClosesGap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		testutil.CreateOrder(t, f.db, "ORD-1"),
		testutil.CreateOrder(t, f.db, "ORD-2"),
		testutil.CreateOrder(t, f.db, "ORD-3"),
		testutil.CreateOrder(t, f.db, "ORD-4"),
	}
	slots := make([]*models.DailyJobQueue, len(orders))
	for i, o := range orders {
		slots[i] = f.schedule(t, o.ID, day)
	}

	wo, err := f.workOrders.OpenWorkOrder(ctx, OpenWorkOrderInput{
		OrderID:    orders[1].ID,
		JobQueueID: &slots[1].ID,
		StepTypes:  []string{"washing"},
	})
	require.NoError(t, err)

	require.NoError(t, f.queue.RemoveSlot(ctx, slots[1].ID))

	assert.Equal(t, map[string]int{slots[0].ID: 1, slots[2].ID: 2, slots[3].ID: 3}, positions(t, f, day))
	assert.Nil(t, f.reload(t, wo.ID).JobQueueID, "work order is detached from the removed slot")

	// the freed order can be scheduled again at the end
	again := f.schedule(t, orders[1].ID, day)
	assert.Equal(t, 4, again.QueuePosition)

	err = f.queue.RemoveSlot(ctx, slots[1].ID)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestRecordCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	slot := f.schedule(t, testutil.CreateOrder(t, f.db, "ORD-1").ID, day)

	done := time.Date(2024, 6, 3, 16, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	updated, err := f.queue.RecordCompletion(ctx, slot.ID, done)
	require.NoError(t, err)
	require.NotNil(t, updated.ActualCompletionTime)
	assert.True(t, updated.ActualCompletionTime.Equal(done))
	assert.Equal(t, time.UTC, updated.ActualCompletionTime.Location())

	_, err = f.queue.RecordCompletion(ctx, "missing", done)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
