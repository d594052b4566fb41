package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklens/internal/models"
	"tasklens/internal/services"
)

// TransferHandler serves the export/import snapshot endpoints.
type TransferHandler struct {
	service services.TaskService
}

func NewTransferHandler(service services.TaskService) *TransferHandler {
	return &TransferHandler{service: service}
}

// GET /api/tasks/export
func (h *TransferHandler) Export(c *gin.Context) {
	snapshot := h.service.Export()
	log.Printf("[transfer][export][ok] count=%d", snapshot.TaskCount)
	c.JSON(http.StatusOK, snapshot)
}

// POST /api/tasks/import
func (h *TransferHandler) Import(c *gin.Context) {
	var req struct {
		Tasks   []models.ImportTask `json:"tasks" binding:"required"`
		Replace bool                `json:"replace"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[transfer][import][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.service.Import(req.Tasks, req.Replace)
	log.Printf("[transfer][import][ok] imported=%d skipped=%d replace=%v",
		result.ImportedCount, result.SkippedCount, req.Replace)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"importedCount": result.ImportedCount,
		"skippedCount":  result.SkippedCount,
		"totalTasks":    result.TotalTasks,
	})
}
