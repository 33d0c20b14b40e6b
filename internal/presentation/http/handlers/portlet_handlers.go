package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/opc-go/internal/application/services"
	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
)

// RenderResponse is returned by every render endpoint
type RenderResponse struct {
	HTML string `json:"html"`
}

// PortletHandlers serves the portlet registry and the render pipeline
type PortletHandlers struct {
	portletService *services.PortletService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewPortletHandlers creates portlet handlers with injected dependencies
func NewPortletHandlers(portletService *services.PortletService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PortletHandlers {
	return &PortletHandlers{
		portletService: portletService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetPortlets handles GET /portlets. ?active=true limits the list to the palette,
// ?grouped=true returns palette groups instead of a flat list.
func (h *PortletHandlers) GetPortlets(c *gin.Context) {
	h.logger.HTTP().Debug("Received get portlets request", "method", c.Request.Method, "path", c.Request.URL.Path)

	if queryBool(c, "grouped") {
		groups := h.portletService.Groups()
		c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
		return
	}

	portlets := h.portletService.List(queryBool(c, "active"))
	c.JSON(http.StatusOK, gin.H{"portlets": portlets, "count": len(portlets)})
}

// GetPortlet handles GET /portlets/:class
func (h *PortletHandlers) GetPortlet(c *gin.Context) {
	class := c.Param("class")
	desc, ok := h.portletService.Describe(class)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "portlet class not registered", "class": class})
		return
	}
	c.JSON(http.StatusOK, desc)
}

// PostRenderPreview handles POST /render/preview
func (h *PortletHandlers) PostRenderPreview(c *gin.Context) {
	h.render(c, "render_preview_request", func(data opc.InstanceData) (string, error) {
		return h.portletService.RenderPreview(data)
	})
}

// PostRenderFinal handles POST /render/final?wrap=&previewOfFinal=
func (h *PortletHandlers) PostRenderFinal(c *gin.Context) {
	opts := renderOptions(c)
	h.render(c, "render_final_request", func(data opc.InstanceData) (string, error) {
		return h.portletService.RenderFinal(data, opts)
	})
}

// PostRenderAreaPreview handles POST /render/preview/areas/:area
func (h *PortletHandlers) PostRenderAreaPreview(c *gin.Context) {
	area := c.Param("area")
	h.render(c, "render_area_preview_request", func(data opc.InstanceData) (string, error) {
		return h.portletService.RenderAreaPreview(data, area)
	})
}

// PostRenderAreaFinal handles POST /render/final/areas/:area
func (h *PortletHandlers) PostRenderAreaFinal(c *gin.Context) {
	area := c.Param("area")
	opts := renderOptions(c)
	h.render(c, "render_area_final_request", func(data opc.InstanceData) (string, error) {
		return h.portletService.RenderAreaFinal(data, area, opts)
	})
}

func (h *PortletHandlers) render(c *gin.Context, operation string, fn func(opc.InstanceData) (string, error)) {
	start := time.Now()
	marker := h.perfTracker.StartOperation(operation)
	defer h.perfTracker.CompleteOperation(marker)

	var data opc.InstanceData
	if err := c.ShouldBindJSON(&data); err != nil {
		marker.SetSuccess(false)
		badRequest(c, err)
		return
	}

	html, err := fn(data)
	if err != nil {
		marker.SetError(err)
		respondError(c, h.logger, operation, err)
		return
	}

	h.logger.HTTP().Info("Render request completed", "operation", operation, "class", data.Class, "duration", time.Since(start))
	c.JSON(http.StatusOK, RenderResponse{HTML: html})
}

func renderOptions(c *gin.Context) services.RenderOptions {
	return services.RenderOptions{
		WrapInContainer: queryBool(c, "wrap"),
		PreviewOfFinal:  queryBool(c, "previewOfFinal"),
	}
}

func queryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
