package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/TheFahmi/Laundry-Systems-sub005/utils"
)

// MockS3Service keeps objects in memory; tests plug it in through InitImageService
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string][]byte
	seq     int64
}

// NewMockS3Service creates an empty in-memory store
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{objects: make(map[string][]byte)}
}

// UploadFile stores the content under keyPrefix. A sequence number stands in for
// the upload timestamp so two uploads in the same second get distinct keys.
func (m *MockS3Service) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader, keyPrefix string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	key := utils.ObjectKey(keyPrefix, m.seq, fileHeader.Filename)
	m.objects[key] = content
	return key, nil
}

// GetPresignedURL returns a fake bucket URL for a stored key
func (m *MockS3Service) GetPresignedURL(ctx context.Context, s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}
	if !m.FileExists(s3Key) {
		return "", fmt.Errorf("object %q not found", s3Key)
	}
	return "https://test-bucket.s3.amazonaws.com/" + s3Key + "?X-Amz-Expires=3600", nil
}

// DeleteFile removes a stored key
func (m *MockS3Service) DeleteFile(ctx context.Context, s3Key string) error {
	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()
	return nil
}

// GetUploadedFiles returns a snapshot of the stored objects
func (m *MockS3Service) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make(map[string][]byte, len(m.objects))
	for k, v := range m.objects {
		snapshot[k] = v
	}
	return snapshot
}

// FileExists reports whether key is stored
func (m *MockS3Service) FileExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[s3Key]
	return ok
}
