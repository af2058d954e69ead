package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kosarica/catalog-service/internal/trigger"
)

// RunHandler serves run triggers
type RunHandler struct {
	runner trigger.Runner
	logger zerolog.Logger
}

// NewRunHandler creates a run handler
func NewRunHandler(runner trigger.Runner, logger zerolog.Logger) *RunHandler {
	return &RunHandler{runner: runner, logger: logger}
}

// Run spawns an ingestion and waits for it. The response is 200 whenever the
// process ran, whatever its exit code.
// @Summary Trigger an ingestion run
// @Description Runs the ingester for one feed as a child process and returns its exit code and output
// @Tags runs
// @Accept json
// @Produce json
// @Param request body trigger.Request true "Feed to ingest"
// @Success 200 {object} trigger.Response
// @Failure 400 {object} map[string]string "Malformed request body"
// @Failure 500 {object} map[string]string "Process could not be started"
// @Router /run [post]
func (h *RunHandler) Run(c *gin.Context) {
	var req trigger.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to start run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
