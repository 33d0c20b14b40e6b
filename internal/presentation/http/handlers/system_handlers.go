package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/persistence/database"
)

// SystemHandlers reports service health and runtime statistics
type SystemHandlers struct {
	db          *database.DB
	cache       interfaces.FragmentCache
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSystemHandlers creates system handlers. db and cache may be nil.
func NewSystemHandlers(db *database.DB, cache interfaces.FragmentCache, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{
		db:          db,
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /health
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	status := "healthy"
	result := gin.H{"uptime": h.perfTracker.Uptime().Round(time.Second).String()}

	if h.db != nil {
		if err := database.CheckConnection(h.db); err != nil {
			status = "degraded"
			result["database"] = gin.H{"status": "error", "error": err.Error()}
			h.logger.System().Warn("Health check database probe failed", "error", err.Error())
		} else {
			result["database"] = gin.H{"status": "ok", "driver": h.db.Driver}
		}
	}
	result["status"] = status

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, result)
}

// GetStats handles GET /api/v1/opc/stats
func (h *SystemHandlers) GetStats(c *gin.Context) {
	result := gin.H{
		"operations": h.perfTracker.Snapshot(),
		"logLevels":  h.logger.GetChannelLevels(),
	}
	if h.cache != nil {
		result["fragments"] = h.cache.GetHTMLChunkSummary()
	}
	c.JSON(http.StatusOK, result)
}

// SetLogLevelRequest changes the level of one log channel
type SetLogLevelRequest struct {
	Channel string `json:"channel" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// PostLogLevel handles POST /api/v1/opc/logs/levels
func (h *SystemHandlers) PostLogLevel(c *gin.Context) {
	var req SetLogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), logging.ParseLevel(req.Level)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": h.logger.GetChannelLevels()})
}
