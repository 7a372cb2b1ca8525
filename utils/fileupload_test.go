package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"png", "after-wash.png", 2048, ""},
		{"jpg", "stain.jpg", 2048, ""},
		{"upper case extension", "label.JPEG", 2048, ""},
		{"exactly the limit", "max.png", MaxFileSize, ""},
		{"one byte over", "large.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
		{"gif", "spin.gif", 2048, "INVALID_FILE_FORMAT"},
		{"pdf", "receipt.pdf", 2048, "INVALID_FILE_FORMAT"},
		{"no extension", "photo", 2048, "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageFile(&multipart.FileHeader{Filename: tt.filename, Size: tt.size})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var uploadErr *FileUploadError
			require.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantCode, uploadErr.Code)
			assert.Equal(t, uploadErr.Message, uploadErr.Error())
		})
	}
}

func TestImageContentType(t *testing.T) {
	for filename, want := range map[string]string{
		"a.png":  "image/png",
		"a.PNG":  "image/png",
		"a.jpg":  "image/jpeg",
		"a.jpeg": "image/jpeg",
	} {
		got, err := ImageContentType(filename)
		assert.NoError(t, err, filename)
		assert.Equal(t, want, got, filename)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("work-orders/wo-1/steps/step-1/", 1717200000, "../dirty shirt.png")
	assert.Equal(t, "work-orders/wo-1/steps/step-1/1717200000_dirty_shirt.png", key)
}
