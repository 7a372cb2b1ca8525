package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkOrderService drives a work order and its ordered steps through the
// processing pipeline. Every operation runs in a single transaction and
// either applies all of its writes or none.
type WorkOrderService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewWorkOrderService creates a work order service backed by db
func NewWorkOrderService(db *gorm.DB, logger *zap.Logger) *WorkOrderService {
	return &WorkOrderService{db: db, logger: logger, now: utcNow}
}

// OpenWorkOrderInput holds the fields of a new work order
type OpenWorkOrderInput struct {
	OrderID      string
	JobQueueID   *string
	StepTypes    []string
	Priority     *int
	AssignedTo   *string
	Instructions *string
}

var openStatuses = []models.WorkOrderStatus{models.WorkOrderPending, models.WorkOrderInProgress}

// OpenWorkOrder creates a pending work order for the order together with
// one pending step per stage, numbered 1..N in the given order
func (s *WorkOrderService) OpenWorkOrder(ctx context.Context, in OpenWorkOrderInput) (*models.WorkOrder, error) {
	stepTypes, err := parseStepList(in.StepTypes)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityDefault
	if in.Priority != nil {
		priority = *in.Priority
	}
	if priority < models.PriorityHighest || priority > models.PriorityLowest {
		return nil, ErrInvalidInput.Withf("Priority must be between %d and %d", models.PriorityHighest, models.PriorityLowest)
	}

	var wo models.WorkOrder
	err = retryOnDuplicate(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := lockOrder(tx, in.OrderID)
			if err != nil {
				return err
			}
			if order.Status == models.OrderCancelled {
				return ErrOrderCancelled.Withf("Cannot open a work order for a cancelled order")
			}

			if in.JobQueueID != nil {
				var slot models.DailyJobQueue
				if err := tx.Where("id = ?", *in.JobQueueID).First(&slot).Error; err != nil {
					if isNotFound(err) {
						return ErrSlotNotFound
					}
					return err
				}
				if slot.OrderID != order.ID {
					return ErrSlotOrderMismatch
				}
			}

			open, err := countOpenWorkOrders(tx, order.ID)
			if err != nil {
				return err
			}
			if open > 0 {
				return ErrOpenWorkOrderExists
			}

			now := s.now()
			wo = models.WorkOrder{
				WorkOrderNumber: generateNumber("WO", now),
				OrderID:         order.ID,
				JobQueueID:      in.JobQueueID,
				Status:          models.WorkOrderPending,
				AssignedTo:      in.AssignedTo,
				Priority:        priority,
				Instructions:    in.Instructions,
				CurrentStep:     stepTypes[0],
			}
			if err := tx.Omit("Steps").Create(&wo).Error; err != nil {
				return err
			}

			steps := make([]models.WorkOrderStep, len(stepTypes))
			for i, t := range stepTypes {
				steps[i] = models.WorkOrderStep{
					WorkOrderID: wo.ID,
					StepType:    t,
					Sequence:    i + 1,
					Status:      models.StepPending,
				}
			}
			if err := tx.Create(&steps).Error; err != nil {
				return err
			}
			wo.Steps = steps

			_, err = promoteOrder(tx, order.ID, models.OrderProcessing)
			return err
		})
	})
	if err != nil {
		if isDuplicateKey(err) {
			// lost the race against a concurrent open for the same order
			return nil, ErrOpenWorkOrderExists
		}
		return nil, err
	}

	s.logger.Info("Work order opened",
		zap.String("work_order_id", wo.ID),
		zap.String("work_order_number", wo.WorkOrderNumber),
		zap.String("order_id", wo.OrderID),
		zap.Int("steps", len(wo.Steps)),
	)
	return &wo, nil
}

// parseStepList validates a non-empty list of distinct recognized stages
func parseStepList(raw []string) ([]models.StepType, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidStepList
	}
	seen := make(map[models.StepType]bool, len(raw))
	out := make([]models.StepType, 0, len(raw))
	for _, name := range raw {
		t, err := models.ParseStepType(name)
		if err != nil {
			return nil, ErrInvalidStepList.Withf("Unrecognized stage %q", name)
		}
		if seen[t] {
			return nil, ErrInvalidStepList.Withf("Stage %q is listed more than once", name)
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// AdvanceStep starts a pending step once every earlier step is completed or
// skipped. The first advance moves the work order to in_progress.
func (s *WorkOrderService) AdvanceStep(ctx context.Context, workOrderID, stepID string, assignee *string) (*models.WorkOrderStep, error) {
	var step models.WorkOrderStep
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wo, err := lockOpenWorkOrder(tx, workOrderID)
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND work_order_id = ?", stepID, wo.ID).First(&step).Error; err != nil {
			if isNotFound(err) {
				return ErrStepNotFound
			}
			return err
		}
		if step.Status != models.StepPending {
			return ErrInvalidStepStatus.Withf("Step %s is %s, only pending steps can be started", step.StepType, step.Status)
		}

		var blocking int64
		if err := tx.Model(&models.WorkOrderStep{}).
			Where("work_order_id = ? AND sequence < ? AND status NOT IN ?", wo.ID, step.Sequence,
				[]models.StepStatus{models.StepCompleted, models.StepSkipped}).
			Count(&blocking).Error; err != nil {
			return err
		}
		if blocking > 0 {
			return ErrStepOutOfSequence.Withf("Step %s (#%d) is blocked by %d earlier step(s)", step.StepType, step.Sequence, blocking)
		}

		now := s.now()
		updates := map[string]interface{}{
			"status":     models.StepInProgress,
			"started_at": now,
		}
		if assignee != nil {
			updates["assigned_to"] = *assignee
		}
		if err := transitionStep(tx, &step, models.StepPending, updates); err != nil {
			return err
		}
		step.Status = models.StepInProgress
		step.StartedAt = &now
		if assignee != nil {
			step.AssignedTo = assignee
		}

		woUpdates := map[string]interface{}{"current_step": step.StepType}
		if wo.Status == models.WorkOrderPending {
			woUpdates["status"] = models.WorkOrderInProgress
			woUpdates["started_at"] = now
		}
		return transitionWorkOrder(tx, wo, woUpdates)
	})
	if err != nil {
		s.logRejected("advance", workOrderID, stepID, err)
		return nil, err
	}

	s.logger.Info("Work order step started",
		zap.String("work_order_id", step.WorkOrderID),
		zap.String("step_id", step.ID),
		zap.String("step_type", string(step.StepType)),
	)
	return &step, nil
}

// CompleteStep finishes an in-progress step. Without an explicit duration the
// elapsed time since the step started is used, rounded to whole minutes.
func (s *WorkOrderService) CompleteStep(ctx context.Context, stepID string, durationMinutes *int) (*models.WorkOrderStep, error) {
	if durationMinutes != nil && *durationMinutes < 0 {
		return nil, ErrInvalidInput.Withf("Duration cannot be negative")
	}

	var step models.WorkOrderStep
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wo, err := lockStepWorkOrder(tx, stepID, &step)
		if err != nil {
			return err
		}
		if step.Status != models.StepInProgress {
			return ErrInvalidStepStatus.Withf("Step %s is %s, only in-progress steps can be completed", step.StepType, step.Status)
		}

		now := s.now()
		minutes := elapsedMinutes(step.StartedAt, now)
		if durationMinutes != nil {
			minutes = *durationMinutes
		}
		if err := transitionStep(tx, &step, models.StepInProgress, map[string]interface{}{
			"status":           models.StepCompleted,
			"ended_at":         now,
			"duration_minutes": minutes,
		}); err != nil {
			return err
		}
		step.Status = models.StepCompleted
		step.EndedAt = &now
		step.DurationMinutes = &minutes

		return s.settle(tx, wo, now)
	})
	if err != nil {
		s.logRejected("complete", "", stepID, err)
		return nil, err
	}

	s.logger.Info("Work order step completed",
		zap.String("work_order_id", step.WorkOrderID),
		zap.String("step_id", step.ID),
		zap.String("step_type", string(step.StepType)),
		zap.Intp("duration_minutes", step.DurationMinutes),
	)
	return &step, nil
}

// SkipStep marks a pending step as skipped; later steps treat it as cleared
func (s *WorkOrderService) SkipStep(ctx context.Context, stepID, reason string) (*models.WorkOrderStep, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput.Withf("A reason is required to skip a step")
	}

	var step models.WorkOrderStep
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wo, err := lockStepWorkOrder(tx, stepID, &step)
		if err != nil {
			return err
		}
		if step.Status != models.StepPending {
			return ErrInvalidStepStatus.Withf("Step %s is %s, only pending steps can be skipped", step.StepType, step.Status)
		}

		if err := transitionStep(tx, &step, models.StepPending, map[string]interface{}{
			"status": models.StepSkipped,
			"notes":  reason,
		}); err != nil {
			return err
		}
		step.Status = models.StepSkipped
		step.Notes = &reason

		return s.settle(tx, wo, s.now())
	})
	if err != nil {
		s.logRejected("skip", "", stepID, err)
		return nil, err
	}

	s.logger.Info("Work order step skipped",
		zap.String("work_order_id", step.WorkOrderID),
		zap.String("step_id", step.ID),
		zap.String("step_type", string(step.StepType)),
		zap.String("reason", reason),
	)
	return &step, nil
}

// CancelWorkOrder closes a pending or in-progress work order. Its steps keep
// their state as a historical record and the parent order is left untouched.
func (s *WorkOrderService) CancelWorkOrder(ctx context.Context, workOrderID, reason string) (*models.WorkOrder, error) {
	var wo *models.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wo, err = lockOpenWorkOrder(tx, workOrderID)
		if err != nil {
			return err
		}

		now := s.now()
		updates := map[string]interface{}{
			"status":   models.WorkOrderCancelled,
			"ended_at": now,
		}
		if reason = strings.TrimSpace(reason); reason != "" {
			updates["notes"] = reason
		}
		return transitionWorkOrder(tx, wo, updates)
	})
	if err != nil {
		s.logRejected("cancel", workOrderID, "", err)
		return nil, err
	}

	s.logger.Info("Work order cancelled", zap.String("work_order_id", wo.ID), zap.String("reason", reason))
	return s.GetWorkOrder(ctx, wo.ID)
}

// settle recomputes the work order after a step was cleared: it completes the
// work order when no step is left open, otherwise points the current-step
// marker at the first open step
func (s *WorkOrderService) settle(tx *gorm.DB, wo *models.WorkOrder, now time.Time) error {
	var steps []models.WorkOrderStep
	if err := tx.Where("work_order_id = ?", wo.ID).Order("sequence ASC").Find(&steps).Error; err != nil {
		return err
	}

	for _, step := range steps {
		if !step.Status.Cleared() {
			return transitionWorkOrder(tx, wo, map[string]interface{}{"current_step": step.StepType})
		}
	}

	updates := map[string]interface{}{
		"status":       models.WorkOrderCompleted,
		"ended_at":     now,
		"current_step": steps[len(steps)-1].StepType,
	}
	// every step was skipped, so the work order never started
	if wo.StartedAt == nil {
		updates["started_at"] = now
	}
	if err := transitionWorkOrder(tx, wo, updates); err != nil {
		return err
	}

	promoted, err := promoteOrder(tx, wo.OrderID, models.OrderReady)
	if err != nil {
		return err
	}
	s.logger.Info("Work order completed",
		zap.String("work_order_id", wo.ID),
		zap.String("order_id", wo.OrderID),
		zap.Bool("order_ready", promoted),
	)
	return nil
}

// GetWorkOrder loads a work order with its steps in sequence order
func (s *WorkOrderService) GetWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error) {
	return s.GetWorkOrderSteps(ctx, id, "")
}

// GetWorkOrderSteps loads a work order keeping only the steps in stepStatus.
// An empty stepStatus keeps every step.
func (s *WorkOrderService) GetWorkOrderSteps(ctx context.Context, id, stepStatus string) (*models.WorkOrder, error) {
	var status models.StepStatus
	if stepStatus != "" {
		parsed, err := models.ParseStepStatus(stepStatus)
		if err != nil {
			return nil, ErrInvalidInput.Withf("%s", err.Error())
		}
		status = parsed
	}

	var wo models.WorkOrder
	err := s.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			if status != "" {
				db = db.Where("status = ?", status)
			}
			return db.Order("sequence ASC")
		}).
		Where("id = ?", id).
		First(&wo).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, err
	}
	return &wo, nil
}

// WorkOrderListParams filters ListWorkOrders
type WorkOrderListParams struct {
	Status  string
	OrderID string
	Page    int
	Size    int
}

// ListWorkOrders returns a page of work orders, most urgent and oldest first
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, params WorkOrderListParams) ([]models.WorkOrder, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.WorkOrder{})
	if params.Status != "" {
		status, err := models.ParseWorkOrderStatus(params.Status)
		if err != nil {
			return nil, 0, ErrInvalidInput.Withf("%s", err.Error())
		}
		query = query.Where("status = ?", status)
	}
	if params.OrderID != "" {
		query = query.Where("order_id = ?", params.OrderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := NormalizePage(params.Page, params.Size)
	var wos []models.WorkOrder
	err := query.Order("priority ASC").Order("created_at ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&wos).Error
	return wos, total, err
}

func (s *WorkOrderService) logRejected(op, workOrderID, stepID string, err error) {
	kind := KindOf(err)
	if kind == "" {
		s.logger.Error("Work order transition failed",
			zap.String("operation", op),
			zap.String("work_order_id", workOrderID),
			zap.String("step_id", stepID),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Work order transition rejected",
		zap.String("operation", op),
		zap.String("work_order_id", workOrderID),
		zap.String("step_id", stepID),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
}

// lockOpenWorkOrder locks the work order row and rejects terminal work orders
func lockOpenWorkOrder(tx *gorm.DB, id string) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	if err := forUpdate(tx).Where("id = ?", id).First(&wo).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, err
	}
	if wo.Status.Terminal() {
		return nil, ErrWorkOrderClosed.Withf("Work order %s is %s", wo.WorkOrderNumber, wo.Status)
	}
	return &wo, nil
}

// lockStepWorkOrder loads the step into step and locks its open work order
func lockStepWorkOrder(tx *gorm.DB, stepID string, step *models.WorkOrderStep) (*models.WorkOrder, error) {
	if err := tx.Where("id = ?", stepID).First(step).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}
	wo, err := lockOpenWorkOrder(tx, step.WorkOrderID)
	if err != nil {
		return nil, err
	}
	// re-read under the work order lock
	if err := tx.Where("id = ?", stepID).First(step).Error; err != nil {
		return nil, err
	}
	return wo, nil
}

// transitionStep applies updates only while the step still has the expected status
func transitionStep(tx *gorm.DB, step *models.WorkOrderStep, from models.StepStatus, updates map[string]interface{}) error {
	res := tx.Model(&models.WorkOrderStep{}).
		Where("id = ? AND status = ?", step.ID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrInvalidStepStatus.Withf("Step %s changed concurrently", step.StepType)
	}
	return nil
}

// transitionWorkOrder applies updates only while the work order still has
// the status it was read with, then mirrors them onto wo
func transitionWorkOrder(tx *gorm.DB, wo *models.WorkOrder, updates map[string]interface{}) error {
	res := tx.Model(&models.WorkOrder{}).
		Where("id = ? AND status = ?", wo.ID, wo.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrWorkOrderClosed.Withf("Work order %s changed concurrently", wo.WorkOrderNumber)
	}

	if v, ok := updates["status"].(models.WorkOrderStatus); ok {
		wo.Status = v
	}
	if v, ok := updates["current_step"].(models.StepType); ok {
		wo.CurrentStep = v
	}
	if v, ok := updates["started_at"].(time.Time); ok {
		wo.StartedAt = &v
	}
	if v, ok := updates["ended_at"].(time.Time); ok {
		wo.EndedAt = &v
	}
	return nil
}

func elapsedMinutes(startedAt *time.Time, endedAt time.Time) int {
	if startedAt == nil {
		return 0
	}
	minutes := int(math.Round(endedAt.Sub(*startedAt).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}
