package services

import (
	"context"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobQueueService assigns orders to processing days and keeps each day's
// queue positions dense, starting at 1
type JobQueueService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewJobQueueService creates a job queue service backed by db
func NewJobQueueService(db *gorm.DB, logger *zap.Logger) *JobQueueService {
	return &JobQueueService{db: db, logger: logger, now: utcNow}
}

// ScheduleInput holds the fields of a new queue slot
type ScheduleInput struct {
	OrderID             string
	Date                time.Time
	EstimatedCompletion *time.Time
	Notes               *string
}

// ScheduleOrder appends the order to the end of the date's queue
func (s *JobQueueService) ScheduleOrder(ctx context.Context, in ScheduleInput) (*models.DailyJobQueue, error) {
	day := models.CalendarDay(in.Date)

	var slot models.DailyJobQueue
	err := retryOnDuplicate(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := lockOrder(tx, in.OrderID)
			if err != nil {
				return err
			}
			if order.Status == models.OrderCancelled {
				return ErrOrderCancelled.Withf("Cancelled orders cannot be scheduled")
			}

			var existing int64
			if err := tx.Model(&models.DailyJobQueue{}).
				Where("order_id = ? AND scheduled_date = ?", order.ID, day).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return ErrDuplicateSlot.Withf("Order %s is already scheduled for %s", order.OrderNumber, day.Format("2006-01-02"))
			}

			var last int
			if err := tx.Model(&models.DailyJobQueue{}).
				Where("scheduled_date = ?", day).
				Select("COALESCE(MAX(queue_position), 0)").
				Scan(&last).Error; err != nil {
				return err
			}

			slot = models.DailyJobQueue{
				OrderID:             order.ID,
				ScheduledDate:       day,
				QueuePosition:       last + 1,
				EstimatedCompletion: in.EstimatedCompletion,
				Notes:               in.Notes,
			}
			return tx.Create(&slot).Error
		})
	})
	if err != nil {
		if isDuplicateKey(err) {
			// every retry lost the race; the slot for this order and date exists
			return nil, ErrDuplicateSlot
		}
		return nil, err
	}

	s.logger.Info("Order scheduled",
		zap.String("slot_id", slot.ID),
		zap.String("order_id", slot.OrderID),
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("position", slot.QueuePosition),
	)
	return &slot, nil
}

// RecordCompletion stores when the slot's processing actually finished
func (s *JobQueueService) RecordCompletion(ctx context.Context, slotID string, completedAt time.Time) (*models.DailyJobQueue, error) {
	var slot models.DailyJobQueue
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ?", slotID).First(&slot).Error; err != nil {
			if isNotFound(err) {
				return ErrSlotNotFound
			}
			return err
		}
		at := completedAt.UTC()
		if err := tx.Model(&slot).Update("actual_completion_time", at).Error; err != nil {
			return err
		}
		slot.ActualCompletionTime = &at
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Queue slot completed", zap.String("slot_id", slot.ID), zap.Time("completed_at", *slot.ActualCompletionTime))
	return &slot, nil
}

// ListSlots returns the date's queue in position order
func (s *JobQueueService) ListSlots(ctx context.Context, date time.Time) ([]models.DailyJobQueue, error) {
	var slots []models.DailyJobQueue
	err := s.db.WithContext(ctx).
		Preload("Order").
		Where("scheduled_date = ?", models.CalendarDay(date)).
		Order("queue_position ASC").
		Find(&slots).Error
	return slots, err
}

// Reorder assigns positions 1..N to the date's slots in the given order.
// slotIDs must name every slot of the date exactly once.
func (s *JobQueueService) Reorder(ctx context.Context, date time.Time, slotIDs []string) ([]models.DailyJobQueue, error) {
	day := models.CalendarDay(date)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slots []models.DailyJobQueue
		if err := forUpdate(tx).Where("scheduled_date = ?", day).Find(&slots).Error; err != nil {
			return err
		}
		if !sameSlotSet(slots, slotIDs) {
			return ErrInvalidSlotSet.Withf("Expected the %d slot(s) scheduled for %s, got %d id(s)",
				len(slots), day.Format("2006-01-02"), len(slotIDs))
		}

		// park every slot on a negative position so (date, position) stays
		// unique while the final positions are written
		for i, id := range slotIDs {
			if err := tx.Model(&models.DailyJobQueue{}).Where("id = ?", id).
				Update("queue_position", -(i + 1)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.DailyJobQueue{}).
			Where("scheduled_date = ? AND queue_position < 0", day).
			Update("queue_position", gorm.Expr("-queue_position")).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Queue reordered", zap.String("date", day.Format("2006-01-02")), zap.Int("slots", len(slotIDs)))
	return s.ListSlots(ctx, day)
}

// RemoveSlot deletes a slot, detaches work orders that referenced it and
// closes the gap in the date's positions
func (s *JobQueueService) RemoveSlot(ctx context.Context, slotID string) error {
	var slot models.DailyJobQueue
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ?", slotID).First(&slot).Error; err != nil {
			if isNotFound(err) {
				return ErrSlotNotFound
			}
			return err
		}

		if err := tx.Model(&models.WorkOrder{}).Where("job_queue_id = ?", slot.ID).
			Update("job_queue_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.DailyJobQueue{}, "id = ?", slot.ID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.DailyJobQueue{}).
			Where("scheduled_date = ? AND queue_position > ?", slot.ScheduledDate, slot.QueuePosition).
			Update("queue_position", gorm.Expr("1 - queue_position")).Error; err != nil {
			return err
		}
		return tx.Model(&models.DailyJobQueue{}).
			Where("scheduled_date = ? AND queue_position < 0", slot.ScheduledDate).
			Update("queue_position", gorm.Expr("-queue_position")).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("Queue slot removed", zap.String("slot_id", slot.ID), zap.String("order_id", slot.OrderID))
	return nil
}

func sameSlotSet(slots []models.DailyJobQueue, ids []string) bool {
	if len(slots) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(slots))
	for _, slot := range slots {
		want[slot.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id) // rejects repeated ids
	}
	return len(want) == 0
}
