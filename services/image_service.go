package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/TheFahmi/Laundry-Systems-sub005/utils"
)

// ImageService validates and stores step photos
type ImageService interface {
	// UploadImage checks format and size, then stores the image under keyPrefix
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, keyPrefix string) (string, error)
	// GetImageURL returns a time-limited URL for a stored image
	GetImageURL(ctx context.Context, imageKey string) (string, error)
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService is the ImageService backed by object storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService installs the process-wide image service over store.
// Photo endpoints answer STORAGE_UNAVAILABLE until this has run.
func InitImageService(store S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{s3Service: store}
	return imageServiceInstance
}

// GetImageService returns the installed image service, or nil
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService replaces the installed image service; nil disables photos
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

func (s *S3ImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader, keyPrefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	key, err := s.s3Service.UploadFile(ctx, fileHeader, keyPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}
	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
