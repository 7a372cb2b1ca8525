package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/services"
	"github.com/TheFahmi/Laundry-Systems-sub005/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// kindStatus maps service error kinds to HTTP status codes
var kindStatus = map[services.Kind]int{
	services.KindNotFound:      http.StatusNotFound,
	services.KindConflict:      http.StatusConflict,
	services.KindInvalidInput:  http.StatusBadRequest,
	services.KindOutOfSequence: http.StatusConflict,
	services.KindInvalidSet:    http.StatusUnprocessableEntity,
}

// requestContext bounds the database work of one request
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), config.StatementTimeout())
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList(c *gin.Context, data interface{}, total int64, page, size int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"size":  size,
		},
	})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// respondError renders a named service failure, or a logged 500 for anything else
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		respondErrorCode(c, kindStatus[svcErr.Kind], svcErr.Code, svcErr.Message)
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondErrorCode(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		config.GetLogger().Warn("Request timed out", zap.String("path", c.FullPath()), zap.Error(err))
		respondErrorCode(c, http.StatusServiceUnavailable, "TIMEOUT", "The request took too long, please retry")
		return
	}

	config.GetLogger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	respondErrorCode(c, http.StatusInternalServerError, "DATABASE_ERROR", "An unexpected error occurred")
}

// pageParams reads page and size query parameters; the echoed values match
// what the service applies
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	return services.NormalizePage(page, size)
}
