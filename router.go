package main

import (
	"net/http"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/controllers"
	"github.com/TheFahmi/Laundry-Systems-sub005/middleware"
	"github.com/TheFahmi/Laundry-Systems-sub005/migrations"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupRouter wires every route. auth validates the caller's token; tests
// pass a stand-in that fills the context the same way.
func setupRouter(cfg *config.Config, logger *zap.Logger, auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheck)

	authed := v1.Group("", auth)
	authed.GET("/database/status", databaseStatus)
	authed.POST("/users", controllers.CreateUser)

	staff := authed.Group("", middleware.RequireRegisteredUser())
	{
		staff.GET("/users/me", controllers.GetMyProfile)
		staff.PUT("/users/me", controllers.UpdateMyProfile)

		staff.POST("/customers", controllers.CreateCustomer)
		staff.GET("/customers", controllers.ListCustomers)
		staff.GET("/customers/:id", controllers.GetCustomer)

		staff.POST("/services", controllers.CreateService)
		staff.GET("/services", controllers.ListServices)

		staff.POST("/orders", controllers.CreateOrder)
		staff.GET("/orders", controllers.ListOrders)
		staff.GET("/orders/:id", controllers.GetOrder)
		staff.POST("/orders/:id/cancel", controllers.CancelOrder)
		staff.POST("/orders/:id/deliver", controllers.DeliverOrder)

		staff.POST("/queue", controllers.ScheduleOrder)
		staff.GET("/queue", controllers.ListQueue)
		staff.POST("/queue/:id/complete", controllers.RecordQueueCompletion)

		staff.POST("/work-orders", controllers.OpenWorkOrder)
		staff.GET("/work-orders", controllers.ListWorkOrders)
		staff.GET("/work-orders/:id", controllers.GetWorkOrder)
		staff.POST("/work-orders/:id/steps/:stepId/start", controllers.StartStep)

		staff.POST("/work-order-steps/:stepId/complete", controllers.CompleteStep)
		staff.POST("/work-order-steps/:stepId/skip", controllers.SkipStep)
		staff.POST("/work-order-steps/:stepId/photo", controllers.UploadStepPhoto)
		staff.GET("/work-order-steps/:stepId/photo", controllers.GetStepPhoto)
	}

	admin := staff.Group("", middleware.RequireAdmin())
	{
		admin.PUT("/queue/reorder", controllers.ReorderQueue)
		admin.DELETE("/queue/:id", controllers.RemoveQueueSlot)
		admin.POST("/work-orders/:id/cancel", controllers.CancelWorkOrder)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Laundry API is running",
	})
}

// databaseStatus reports connectivity and the applied schema version
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	version, err := migrations.Version(c.Request.Context(), db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to read schema version",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Database connected",
		"schema_version": version,
	})
}
