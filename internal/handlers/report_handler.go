package handlers

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasklens/internal/pdf"
	"tasklens/internal/services"
)

type ReportHandler struct {
	service services.TaskService
	gen     pdf.Generator
}

func NewReportHandler(service services.TaskService, gen pdf.Generator) *ReportHandler {
	return &ReportHandler{service: service, gen: gen}
}

// GET /api/tasks/report
func (h *ReportHandler) TaskSummary(c *gin.Context) {
	snapshot := h.service.Export()
	stats := h.service.Stats()

	var buf bytes.Buffer
	if err := h.gen.TaskSummary(&buf, snapshot, stats); err != nil {
		log.Printf("[report][summary][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}
	log.Printf("[report][summary][ok] tasks=%d bytes=%d", snapshot.TaskCount, buf.Len())

	c.Header("Content-Disposition", `attachment; filename="task-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
