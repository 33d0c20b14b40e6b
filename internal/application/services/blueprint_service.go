package services

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/domain/repositories"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/presentation/templates"
)

// BlueprintService stores composition trees and renders them through the fragment cache
type BlueprintService struct {
	repo     repositories.BlueprintRepository
	portlets *PortletService
	renderer *templates.Renderer
	cache    interfaces.FragmentCache
	logger   *logging.ChanneledLogger
}

// NewBlueprintService creates a new blueprint application service. cache may be nil.
func NewBlueprintService(
	repo repositories.BlueprintRepository,
	portlets *PortletService,
	renderer *templates.Renderer,
	cache interfaces.FragmentCache,
	logger *logging.ChanneledLogger,
) *BlueprintService {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &BlueprintService{
		repo:     repo,
		portlets: portlets,
		renderer: renderer,
		cache:    cache,
		logger:   logger,
	}
}

// Save validates data against the decoder limits and stores it. An empty ID creates a
// new blueprint; otherwise the existing one is replaced.
func (s *BlueprintService) Save(id, name string, data opc.InstanceData) (*opc.Blueprint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("blueprint name cannot be empty")
	}

	// round trip through a live tree so stored data is normalized
	root, err := s.portlets.Decode(data)
	if err != nil {
		return nil, err
	}

	if id == "" {
		bp := opc.NewBlueprint(name, root)
		if err := s.repo.Store(bp); err != nil {
			return nil, fmt.Errorf("failed to create blueprint %s: %w", name, err)
		}
		s.logger.Database().Info("Blueprint created", "id", bp.ID, "slug", bp.Slug)
		return bp, nil
	}

	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to verify blueprint %s exists: %w", id, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("blueprint %s: %w", id, opc.ErrBlueprintNotFound)
	}

	existing.Name = name
	existing.Slug = slug.Make(name)
	existing.Data = root.Serialize()
	if err := s.repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update blueprint %s: %w", id, err)
	}
	s.invalidate(id)
	s.logger.Database().Info("Blueprint updated", "id", id, "slug", existing.Slug)
	return existing, nil
}

// Get returns a stored blueprint by ID or slug
func (s *BlueprintService) Get(idOrSlug string) (*opc.Blueprint, error) {
	if idOrSlug == "" {
		return nil, fmt.Errorf("blueprint ID cannot be empty")
	}

	bp, err := s.repo.FindByID(idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get blueprint %s: %w", idOrSlug, err)
	}
	if bp == nil {
		bp, err = s.repo.FindBySlug(idOrSlug)
		if err != nil {
			return nil, fmt.Errorf("failed to get blueprint %s: %w", idOrSlug, err)
		}
	}
	if bp == nil {
		return nil, fmt.Errorf("blueprint %s: %w", idOrSlug, opc.ErrBlueprintNotFound)
	}
	return bp, nil
}

// List returns every stored blueprint
func (s *BlueprintService) List() ([]*opc.Blueprint, error) {
	all, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list blueprints: %w", err)
	}
	return all, nil
}

// Delete removes a blueprint and its cached markup
func (s *BlueprintService) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("blueprint ID cannot be empty")
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete blueprint %s: %w", id, err)
	}
	s.invalidate(id)
	return nil
}

// Instantiate builds a live tree from a stored blueprint with fresh UIDs
func (s *BlueprintService) Instantiate(idOrSlug string) (*opc.Instance, error) {
	bp, err := s.Get(idOrSlug)
	if err != nil {
		return nil, err
	}
	inst, err := bp.Instantiate(s.portlets.Decoder())
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate blueprint %s: %w", bp.ID, err)
	}
	return inst, nil
}

// RenderFinal renders the stored tree, serving repeated requests from the fragment cache
func (s *BlueprintService) RenderFinal(idOrSlug string, opts RenderOptions) (string, error) {
	bp, err := s.Get(idOrSlug)
	if err != nil {
		return "", err
	}

	variant := types.FragmentVariant{
		Mode:            templates.ModeFinal,
		WrapInContainer: opts.WrapInContainer,
		PreviewOfFinal:  opts.PreviewOfFinal,
	}
	if s.cache != nil {
		if chunk, ok := s.cache.GetHTMLChunk(bp.ID, variant); ok {
			return chunk.HTML, nil
		}
	}

	root, err := s.portlets.Decode(bp.Data)
	if err != nil {
		return "", err
	}
	markup := s.renderer.WithPreviewOfFinal(opts.PreviewOfFinal).RenderFinal(root, opts.WrapInContainer)

	if s.cache != nil {
		s.cache.SetHTMLChunk(bp.ID, variant, markup, nil)
	}
	return markup, nil
}

func (s *BlueprintService) invalidate(id string) {
	if s.cache != nil {
		s.cache.InvalidateByDependency(id)
	}
}
