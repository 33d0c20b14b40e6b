// Package services provides application-level services that orchestrate
// the portlet registry, the decoder and the render pipeline.
package services

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/presentation/templates"
)

// PortletSummary is the palette entry for one portlet
type PortletSummary struct {
	Class    string `json:"class"`
	Title    string `json:"title"`
	Group    string `json:"group"`
	Active   bool   `json:"active"`
	PluginID string `json:"pluginId,omitempty"`
}

// PortletDescription carries everything an editor needs to build a property form
type PortletDescription struct {
	PortletSummary
	Properties  opc.Schema              `json:"properties"`
	Styles      opc.Schema              `json:"styles"`
	Animations  opc.Schema              `json:"animations"`
	Tabs        []opc.Tab               `json:"tabs"`
	Defaults    map[string]any          `json:"defaults"`
	Description map[string]opc.Property `json:"description"`
}

// GroupSummary lists the portlets of one palette group
type GroupSummary struct {
	Name     string           `json:"name"`
	Portlets []PortletSummary `json:"portlets"`
}

// RenderOptions selects how final markup is produced
type RenderOptions struct {
	WrapInContainer bool
	PreviewOfFinal  bool
}

// PortletService answers registry queries and renders serialized trees
type PortletService struct {
	registry *opc.Registry
	decoder  *opc.Decoder
	renderer *templates.Renderer
	logger   *logging.ChanneledLogger
}

// NewPortletService creates a new portlet application service
func NewPortletService(registry *opc.Registry, limits opc.Limits, renderer *templates.Renderer, logger *logging.ChanneledLogger) *PortletService {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &PortletService{
		registry: registry,
		decoder:  opc.NewDecoder(registry, limits),
		renderer: renderer,
		logger:   logger,
	}
}

// Decoder returns the decoder bound to the registry
func (s *PortletService) Decoder() *opc.Decoder {
	return s.decoder
}

// List returns portlet summaries ordered by group then class
func (s *PortletService) List(activeOnly bool) []PortletSummary {
	portlets := s.registry.List()
	if activeOnly {
		portlets = s.registry.ListActive()
	}
	out := make([]PortletSummary, 0, len(portlets))
	for _, p := range portlets {
		out = append(out, s.summarize(p))
	}
	return out
}

// Groups returns the active palette grouped by portlet group
func (s *PortletService) Groups() []GroupSummary {
	groups := s.registry.Groups()
	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		gs := GroupSummary{Name: g.Name, Portlets: make([]PortletSummary, 0, len(g.Portlets))}
		for _, p := range g.Portlets {
			gs.Portlets = append(gs.Portlets, s.summarize(p))
		}
		out = append(out, gs)
	}
	return out
}

// Describe returns the full description of a registered class
func (s *PortletService) Describe(class string) (*PortletDescription, bool) {
	if !s.registry.Has(class) {
		return nil, false
	}
	p := s.registry.Portlet(class)
	return &PortletDescription{
		PortletSummary: s.summarize(p),
		Properties:     p.PropertySchema(),
		Styles:         p.StylesSchema(),
		Animations:     p.AnimationsSchema(),
		Tabs:           p.PropertyTabs(),
		Defaults:       p.DefaultProperties(),
		Description:    p.DeepPropertyDescription(),
	}, true
}

// Decode builds a live tree, reporting limit violations
func (s *PortletService) Decode(data opc.InstanceData) (*opc.Instance, error) {
	start := time.Now()
	inst, err := s.decoder.Decode(data)
	if err != nil {
		s.logger.LogError(logging.ChannelRender, "decode", err, map[string]any{"class": data.Class})
		return nil, fmt.Errorf("failed to decode %s tree: %w", data.Class, err)
	}
	s.logger.Render().Debug("Decoded tree", "class", inst.Class(), "uid", inst.UID(), "duration", time.Since(start))
	return inst, nil
}

// RenderPreview decodes data and renders its editor markup
func (s *PortletService) RenderPreview(data opc.InstanceData) (string, error) {
	inst, err := s.Decode(data)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderPreview(inst), nil
}

// RenderFinal decodes data and renders its production markup
func (s *PortletService) RenderFinal(data opc.InstanceData, opts RenderOptions) (string, error) {
	inst, err := s.Decode(data)
	if err != nil {
		return "", err
	}
	return s.renderer.WithPreviewOfFinal(opts.PreviewOfFinal).RenderFinal(inst, opts.WrapInContainer), nil
}

// RenderAreaPreview renders one subarea of the decoded tree; unknown areas render as ""
func (s *PortletService) RenderAreaPreview(data opc.InstanceData, areaKey string) (string, error) {
	inst, err := s.Decode(data)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderSubareaPreview(inst, areaKey), nil
}

// RenderAreaFinal renders one subarea of the decoded tree in production mode
func (s *PortletService) RenderAreaFinal(data opc.InstanceData, areaKey string, opts RenderOptions) (string, error) {
	inst, err := s.Decode(data)
	if err != nil {
		return "", err
	}
	return s.renderer.WithPreviewOfFinal(opts.PreviewOfFinal).RenderSubareaFinal(inst, areaKey, opts.WrapInContainer), nil
}

// Instantiate creates a fresh instance of class populated with its defaults
func (s *PortletService) Instantiate(class string) *opc.Instance {
	return opc.NewInstance(s.registry.Portlet(class))
}

// summarize localizes the title through the renderer's translator
func (s *PortletService) summarize(p opc.Portlet) PortletSummary {
	return PortletSummary{
		Class:    p.Class(),
		Title:    s.renderer.Translate(p.Title()),
		Group:    p.Group(),
		Active:   p.Active(),
		PluginID: p.PluginID(),
	}
}
