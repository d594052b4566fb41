package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasklens/internal/models"
	"tasklens/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	log.Printf("[task][list] q=%v", c.Request.URL.RawQuery)

	var filter models.TaskFilter
	if v, ok := c.GetQuery("completed"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Completed = &b
		} else {
			log.Printf("[task][list][warn] bad completed=%q: %v", v, err)
		}
	}
	if v, ok := c.GetQuery("source"); ok {
		src := models.TaskSource(v)
		if !models.ValidSource(src) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source"})
			return
		}
		filter.Source = &src
	}
	if v, ok := c.GetQuery("priority"); ok {
		p := models.TaskPriority(v)
		if !models.ValidPriority(p) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		filter.Priority = &p
	}
	if v, ok := c.GetQuery("overdue"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Overdue = &b
		} else {
			log.Printf("[task][list][warn] bad overdue=%q: %v", v, err)
		}
	}
	filter.Assignee = c.Query("assignee")
	filter.Search = c.Query("search")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	result := h.service.Query(filter)
	log.Printf("[task][list][ok] matched=%d page=%d", result.Pagination.Total, result.Pagination.Page)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"tasks":      result.Tasks,
		"pagination": result.Pagination,
		"stats":      result.Stats,
	})
}

// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(id)
	if err != nil {
		log.Printf("[task][getByID][404] id=%d", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req models.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Printf("[task][update][404] id=%d", id)
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, models.ErrValidation):
			log.Printf("[task][update][err] id=%d: %v", id, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[task][update][err] id=%d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task, "message": "Task updated successfully"})
}

// PATCH /api/tasks/:id/toggle-complete
func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][toggle][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.ToggleComplete(id, *req.Completed)
	if err != nil {
		log.Printf("[task][toggle][404] id=%d", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	log.Printf("[task][toggle][ok] id=%d completed=%v", id, *req.Completed)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.Delete(id)
	if err != nil {
		log.Printf("[task][delete][404] id=%d", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task, "message": "Task deleted successfully"})
}

// POST /api/tasks/bulk
func (h *TaskHandler) Bulk(c *gin.Context) {
	var req struct {
		IDs      []int64               `json:"ids" binding:"required"`
		Action   models.BulkActionType `json:"action" binding:"required"`
		Priority models.TaskPriority   `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][bulk][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.BulkAction(req.IDs, req.Action, req.Priority)
	if err != nil {
		log.Printf("[task][bulk][err] action=%q: %v", req.Action, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][bulk][ok] action=%q affected=%d notFound=%d", req.Action, result.Affected, len(result.NotFound))
	c.JSON(http.StatusOK, gin.H{"success": true, "affected": result.Affected, "notFound": result.NotFound})
}

// DELETE /api/tasks/source/:source
func (h *TaskHandler) DeleteBySource(c *gin.Context) {
	source := models.TaskSource(c.Param("source"))
	if !models.ValidSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source"})
		return
	}

	count := h.service.DeleteBySource(source)
	log.Printf("[task][deleteBySource][ok] source=%q count=%d", source, count)
	c.JSON(http.StatusOK, gin.H{"deleted": true, "count": count})
}
