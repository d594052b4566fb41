package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklens/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	extractHandler *handlers.ExtractHandler,
	taskHandler *handlers.TaskHandler,
	transferHandler *handlers.TransferHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// EXTRACTION
	api.POST("/parse-task", extractHandler.ParseTask)
	api.POST("/parse-meeting", extractHandler.ParseMeeting)

	// TASKS
	tasks := api.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("/bulk", taskHandler.Bulk)
		tasks.GET("/export", transferHandler.Export)
		tasks.POST("/import", transferHandler.Import)
		tasks.GET("/report", reportHandler.TaskSummary)
		tasks.DELETE("/source/:source", taskHandler.DeleteBySource)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.PATCH("/:id/toggle-complete", taskHandler.ToggleComplete)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return r
}
