package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jenkify/jenkify/internal/jenkins"
)

type jenkinsClient interface {
	Jobs(ctx context.Context) ([]jenkins.JobSummary, error)
	BuildData(ctx context.Context, jobName string, buildNumber int) (*jenkins.Build, error)
}

// ClientHandler proxies the Jenkins JSON API.
type ClientHandler struct {
	jenkins jenkinsClient
	logger  *slog.Logger
}

func NewClientHandler(client jenkinsClient, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		jenkins: client,
		logger:  logger.With("component", "client_handler"),
	}
}

// GET /client/jobs
func (h *ClientHandler) Jobs(c *gin.Context) {
	jobs, err := h.jenkins.Jobs(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list jenkins jobs", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errJenkinsUpstream})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GET /client/build/:jobName/:buildNumber
func (h *ClientHandler) Build(c *gin.Context) {
	jobName := c.Param("jobName")
	buildNumber, err := strconv.Atoi(c.Param("buildNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buildNumber must be an integer"})
		return
	}

	build, err := h.jenkins.BuildData(c.Request.Context(), jobName, buildNumber)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "get jenkins build",
			"job", jobName, "build", buildNumber, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errJenkinsUpstream})
		return
	}
	c.JSON(http.StatusOK, build)
}
