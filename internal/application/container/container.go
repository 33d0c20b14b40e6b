// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/application/services"
	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	domainservices "github.com/AtRiskMedia/opc-go/internal/domain/services"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/i18n"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/persistence/blueprints"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/opc-go/internal/presentation/templates"
	"github.com/AtRiskMedia/opc-go/internal/presentation/templates/portlets"
	"github.com/AtRiskMedia/opc-go/pkg/config"
)

// Options carries everything the container needs from configuration
type Options struct {
	DB             *database.DB // nil disables blueprint storage
	Overrides      map[string]opc.Override
	MediaRoot      string
	MediaURLPrefix string
	VariantDir     string
	ImageWidths    [4]int // xs, sm, md, lg
	Language       string
	Limits         opc.Limits
	FragmentTTL    time.Duration
	SlowThreshold  time.Duration
}

// OptionsFromConfig builds options from the central config package
func OptionsFromConfig(db *database.DB, overrides map[string]opc.Override) Options {
	return Options{
		DB:             db,
		Overrides:      overrides,
		MediaRoot:      config.MediaRoot,
		MediaURLPrefix: config.MediaURLPrefix,
		VariantDir:     config.ImageVariantDir,
		ImageWidths:    [4]int{config.ImageWidthXS, config.ImageWidthSM, config.ImageWidthMD, config.ImageWidthLG},
		Language:       config.Language,
		Limits:         opc.Limits{MaxDepth: config.MaxTreeDepth, MaxAreaItems: config.MaxAreaItems},
		FragmentTTL:    config.FragmentCacheTTL,
		SlowThreshold:  config.SlowQueryThreshold,
	}
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	PortletService   *services.PortletService
	BlueprintService *services.BlueprintService

	// Composition core
	Registry     *opc.Registry
	Renderer     *templates.Renderer
	Hooks        *messaging.HookRegistry
	Catalog      *i18n.Catalog
	Images       *media.ImageLibrary
	ImageService *domainservices.ResponsiveImageService

	// Infrastructure Dependencies
	DB            *database.DB
	FragmentCache *stores.FragmentsStore
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger, opts Options) (*Container, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	images := media.NewImageLibrary(opts.MediaRoot, opts.MediaURLPrefix, opts.VariantDir, logger)
	w := opts.ImageWidths
	imageService := domainservices.NewResponsiveImageService(images, domainservices.DefaultImageSizes(w[0], w[1], w[2], w[3]))

	registry, err := opc.NewRegistry(portlets.Builtin(imageService)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build portlet registry: %w", err)
	}
	if len(opts.Overrides) > 0 {
		var unknown []string
		registry, unknown = registry.WithOverrides(opts.Overrides)
		for _, class := range unknown {
			logger.Registry().Warn("Manifest names an unregistered portlet class", "class", class)
		}
	}
	logger.Registry().Info("Portlet registry ready", "portlets", len(registry.List()), "active", len(registry.ListActive()))

	perfTracker := performance.NewTracker(opts.SlowThreshold)
	hooks := messaging.NewHookRegistry(logger)
	catalog := i18n.NewCatalog(opts.Language)
	renderer := templates.NewRenderer(hooks, catalog, logger, perfTracker)
	fragmentCache := stores.NewFragmentsStore(opts.FragmentTTL, logger)

	portletService := services.NewPortletService(registry, opts.Limits, renderer, logger)

	var blueprintService *services.BlueprintService
	if opts.DB != nil {
		repo := blueprints.NewBlueprintRepository(opts.DB.DB, logger)
		blueprintService = services.NewBlueprintService(repo, portletService, renderer, fragmentCache, logger)
	}

	return &Container{
		PortletService:   portletService,
		BlueprintService: blueprintService,

		Registry:     registry,
		Renderer:     renderer,
		Hooks:        hooks,
		Catalog:      catalog,
		Images:       images,
		ImageService: imageService,

		DB:            opts.DB,
		FragmentCache: fragmentCache,
		Logger:        logger,
		PerfTracker:   perfTracker,
	}, nil
}
