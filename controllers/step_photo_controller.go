package controllers

import (
	"net/http"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/gin-gonic/gin"
)

func stepPhotoService() *services.StepPhotoService {
	return services.NewStepPhotoService(config.GetDB(), services.GetImageService(), config.GetLogger())
}

// UploadStepPhoto handles POST /api/v1/work-order-steps/:stepId/photo (multipart field "image")
func UploadStepPhoto(c *gin.Context) {
	if services.GetImageService() == nil {
		respondErrorCode(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Photo storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required in the \"image\" field")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	step, err := stepPhotoService().AttachPhoto(ctx, c.Param("stepId"), fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, step)
}

// GetStepPhoto handles GET /api/v1/work-order-steps/:stepId/photo; the URL is valid for one hour
func GetStepPhoto(c *gin.Context) {
	if services.GetImageService() == nil {
		respondErrorCode(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Photo storage is not configured")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	url, err := stepPhotoService().PhotoURL(ctx, c.Param("stepId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"url": url})
}
