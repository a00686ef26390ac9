package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/internal/jenkins"
	"github.com/jenkify/jenkify/internal/usecase"
)

type QueueHandler struct {
	queue  *usecase.Queue
	logger *slog.Logger
}

func NewQueueHandler(queue *usecase.Queue, logger *slog.Logger) *QueueHandler {
	return &QueueHandler{
		queue:  queue,
		logger: logger.With("component", "queue_handler"),
	}
}

type queueYAMLResponse struct {
	YAML string `json:"yaml"`
}

// POST /queue/as-yaml
// Takes the job list the frontend assembled and renders it as YAML grouped
// by host.
func (h *QueueHandler) AsYAML(c *gin.Context) {
	var jobs []jenkins.JobSummary
	if err := c.ShouldBindJSON(&jobs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.queue.ConvertToYAML(jobs)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "convert queue to yaml", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, queueYAMLResponse{YAML: out})
}
