package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/opc-go/internal/application/services"
	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
)

// SaveBlueprintRequest creates a blueprint, or replaces one when ID is set
type SaveBlueprintRequest struct {
	ID       string           `json:"id"`
	Name     string           `json:"name" binding:"required"`
	Instance opc.InstanceData `json:"instance"`
}

// BlueprintHandlers contains all blueprint-related HTTP handlers
type BlueprintHandlers struct {
	blueprintService *services.BlueprintService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewBlueprintHandlers creates blueprint handlers with injected dependencies
func NewBlueprintHandlers(blueprintService *services.BlueprintService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BlueprintHandlers {
	return &BlueprintHandlers{
		blueprintService: blueprintService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetBlueprints handles GET /blueprints
func (h *BlueprintHandlers) GetBlueprints(c *gin.Context) {
	blueprints, err := h.blueprintService.List()
	if err != nil {
		respondError(c, h.logger, "list_blueprints", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blueprints": blueprints, "count": len(blueprints)})
}

// PostBlueprint handles POST /blueprints
func (h *BlueprintHandlers) PostBlueprint(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("save_blueprint_request")
	defer h.perfTracker.CompleteOperation(marker)

	var req SaveBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetSuccess(false)
		badRequest(c, err)
		return
	}

	bp, err := h.blueprintService.Save(req.ID, req.Name, req.Instance)
	if err != nil {
		marker.SetError(err)
		respondError(c, h.logger, "save_blueprint", err)
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	h.logger.HTTP().Info("Save blueprint request completed", "id", bp.ID, "duration", time.Since(start))
	c.JSON(status, bp)
}

// GetBlueprint handles GET /blueprints/:id; the ID may also be a slug
func (h *BlueprintHandlers) GetBlueprint(c *gin.Context) {
	bp, err := h.blueprintService.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get_blueprint", err)
		return
	}
	c.JSON(http.StatusOK, bp)
}

// DeleteBlueprint handles DELETE /blueprints/:id
func (h *BlueprintHandlers) DeleteBlueprint(c *gin.Context) {
	id := c.Param("id")
	if err := h.blueprintService.Delete(id); err != nil {
		respondError(c, h.logger, "delete_blueprint", err)
		return
	}
	h.logger.HTTP().Info("Blueprint deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// GetBlueprintInstance handles GET /blueprints/:id/instance, returning a fresh tree
// ready to be dropped into a page
func (h *BlueprintHandlers) GetBlueprintInstance(c *gin.Context) {
	inst, err := h.blueprintService.Instantiate(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "instantiate_blueprint", err)
		return
	}
	c.JSON(http.StatusOK, inst.Serialize())
}

// GetBlueprintFinal handles GET /blueprints/:id/final?wrap=&previewOfFinal=
func (h *BlueprintHandlers) GetBlueprintFinal(c *gin.Context) {
	marker := h.perfTracker.StartOperation("render_blueprint_final_request")
	defer h.perfTracker.CompleteOperation(marker)

	html, err := h.blueprintService.RenderFinal(c.Param("id"), renderOptions(c))
	if err != nil {
		marker.SetError(err)
		respondError(c, h.logger, "render_blueprint_final", err)
		return
	}
	c.JSON(http.StatusOK, RenderResponse{HTML: html})
}
