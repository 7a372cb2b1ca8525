package controllers

import (
	"net/http"
	"testing"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/TheFahmi/Laundry-Systems-sub005/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueEndpoints(t *testing.T) {
	db := setupTestDB(t)
	router, _ := staffRouter(t, db, "auth0|boss", models.RoleAdmin)
	router.POST("/queue", ScheduleOrder)
	router.GET("/queue", ListQueue)
	router.PUT("/queue/reorder", ReorderQueue)
	router.POST("/queue/:id/complete", RecordQueueCompletion)
	router.DELETE("/queue/:id", RemoveQueueSlot)

	a := testutil.CreateOrder(t, db, "ORD-1")
	b := testutil.CreateOrder(t, db, "ORD-2")

	schedule := func(orderID string) *models.DailyJobQueue {
		w := doJSON(router, http.MethodPost, "/queue", map[string]string{"order_id": orderID, "scheduled_date": "2024-06-03"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var slot models.DailyJobQueue
		decode(t, w, &slot)
		return &slot
	}
	slotA := schedule(a.ID)
	slotB := schedule(b.ID)
	assert.Equal(t, 1, slotA.QueuePosition)
	assert.Equal(t, 2, slotB.QueuePosition)

	t.Run("duplicate slot", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/queue", map[string]string{"order_id": a.ID, "scheduled_date": "2024-06-03"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_SLOT", errorCode(t, w))
	})

	t.Run("bad date", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/queue", map[string]string{"order_id": a.ID, "scheduled_date": "03/06/2024"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

		w = doJSON(router, http.MethodGet, "/queue?date=tomorrow", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reorder", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/queue/reorder", map[string]interface{}{"date": "2024-06-03", "slot_ids": []string{slotB.ID}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_SLOT_SET", errorCode(t, w))

		w = doJSON(router, http.MethodPut, "/queue/reorder", map[string]interface{}{"date": "2024-06-03", "slot_ids": []string{slotB.ID, slotA.ID}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var slots []models.DailyJobQueue
		decode(t, w, &slots)
		require.Len(t, slots, 2)
		assert.Equal(t, slotB.ID, slots[0].ID)
		assert.Equal(t, 1, slots[0].QueuePosition)
	})

	t.Run("complete", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/queue/"+slotA.ID+"/complete", map[string]string{"completed_at": "2024-06-03T15:04:05Z"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var slot models.DailyJobQueue
		decode(t, w, &slot)
		require.NotNil(t, slot.ActualCompletionTime)
		assert.Equal(t, 15, slot.ActualCompletionTime.Hour())

		w = doJSON(router, http.MethodPost, "/queue/missing/complete", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("remove", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/queue/"+slotB.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Queue slot removed", decode(t, w, nil).Message)

		w = doJSON(router, http.MethodGet, "/queue?date=2024-06-03", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var slots []models.DailyJobQueue
		decode(t, w, &slots)
		require.Len(t, slots, 1)
		assert.Equal(t, slotA.ID, slots[0].ID)
		assert.Equal(t, 1, slots[0].QueuePosition)
	})
}
