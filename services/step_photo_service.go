package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StepPhotoService stores evidence photos for work order steps.
// Photos never change a step's status.
type StepPhotoService struct {
	db     *gorm.DB
	images ImageService
	logger *zap.Logger
}

// NewStepPhotoService creates a step photo service
func NewStepPhotoService(db *gorm.DB, images ImageService, logger *zap.Logger) *StepPhotoService {
	return &StepPhotoService{db: db, images: images, logger: logger}
}

// AttachPhoto uploads the image and records its key on the step, replacing
// any earlier photo
func (s *StepPhotoService) AttachPhoto(ctx context.Context, stepID string, fileHeader *multipart.FileHeader) (*models.WorkOrderStep, error) {
	step, err := s.loadStep(ctx, stepID)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("work-orders/%s/steps/%s", step.WorkOrderID, step.ID)
	key, err := s.images.UploadImage(ctx, fileHeader, prefix)
	if err != nil {
		return nil, err
	}

	previous := step.PhotoS3Key
	if err := s.db.WithContext(ctx).Model(&models.WorkOrderStep{}).
		Where("id = ?", step.ID).
		Update("photo_s3_key", key).Error; err != nil {
		// keep storage consistent with the row
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned step photo", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	step.PhotoS3Key = &key

	if previous != nil && *previous != key {
		if err := s.images.DeleteImage(ctx, *previous); err != nil {
			s.logger.Warn("Failed to delete replaced step photo", zap.String("key", *previous), zap.Error(err))
		}
	}

	if url, err := s.images.GetImageURL(ctx, key); err == nil {
		step.PhotoURL = &url
	} else {
		s.logger.Warn("Failed to presign step photo", zap.String("key", key), zap.Error(err))
	}

	s.logger.Info("Step photo attached", zap.String("step_id", step.ID), zap.String("key", key))
	return step, nil
}

// PhotoURL returns a time-limited URL for the step's photo
func (s *StepPhotoService) PhotoURL(ctx context.Context, stepID string) (string, error) {
	step, err := s.loadStep(ctx, stepID)
	if err != nil {
		return "", err
	}
	if step.PhotoS3Key == nil || *step.PhotoS3Key == "" {
		return "", ErrPhotoNotFound
	}
	return s.images.GetImageURL(ctx, *step.PhotoS3Key)
}

func (s *StepPhotoService) loadStep(ctx context.Context, stepID string) (*models.WorkOrderStep, error) {
	var step models.WorkOrderStep
	if err := s.db.WithContext(ctx).Where("id = ?", stepID).First(&step).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}
	return &step, nil
}
