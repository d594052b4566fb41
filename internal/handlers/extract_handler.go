package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasklens/internal/models"
	"tasklens/internal/services"
)

const (
	maxSingleInputLen = 1000
	maxTranscriptLen  = 10000
	taskCreatedMsg    = "Task created successfully"
)

type ExtractHandler struct {
	extractor services.ExtractionService
	tasks     services.TaskService
}

func NewExtractHandler(extractor services.ExtractionService, tasks services.TaskService) *ExtractHandler {
	return &ExtractHandler{extractor: extractor, tasks: tasks}
}

// POST /api/parse-task
func (h *ExtractHandler) ParseTask(c *gin.Context) {
	var req struct {
		Input string `json:"input"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[parse][task][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input cannot be empty"})
		return
	}
	if len(req.Input) > maxSingleInputLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input too long (max 1000 characters)"})
		return
	}

	bundle, err := h.extractor.ExtractOne(c.Request.Context(), strings.TrimSpace(req.Input))
	if err != nil {
		log.Printf("[parse][task][err] %v", err)
		respondExtractionError(c, err)
		return
	}

	task := h.tasks.CreateFromBundle(bundle, models.SourceSingle, req.Input)
	log.Printf("[parse][task][ok] id=%d name=%q", task.ID, task.TaskName)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    task,
		"message": taskCreatedMsg,
	})
}

// POST /api/parse-meeting
func (h *ExtractHandler) ParseMeeting(c *gin.Context) {
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[parse][meeting][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transcript cannot be empty"})
		return
	}
	if len(req.Transcript) > maxTranscriptLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transcript too long (max 10000 characters)"})
		return
	}

	res, err := h.extractor.ExtractMany(c.Request.Context(), strings.TrimSpace(req.Transcript))
	if err != nil {
		log.Printf("[parse][meeting][err] %v", err)
		respondExtractionError(c, err)
		return
	}

	tasks := h.tasks.CreateFromBundles(res.Bundles, models.SourceMeeting, req.Transcript)
	log.Printf("[parse][meeting][ok] count=%d placeholder=%v", len(tasks), res.Placeholder)
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"tasks":       tasks,
		"count":       len(tasks),
		"placeholder": res.Placeholder,
	})
}

// respondExtractionError maps the extraction taxonomy to transport
// responses: capability outage is a bad gateway, an empty transcript is a
// rejection, everything else is a server fault with details.
func respondExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrModelUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Language model unavailable", "details": err.Error()})
	case errors.Is(err, models.ErrNoTasksFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No actionable tasks found in the transcript"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse task", "details": err.Error()})
	}
}
