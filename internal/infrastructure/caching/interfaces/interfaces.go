// Package interfaces defines cache operation contracts.
package interfaces

import (
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/types"
)

// FragmentCache defines operations for rendered markup caching
type FragmentCache interface {
	GetHTMLChunk(sourceID string, variant types.FragmentVariant) (*types.HTMLChunk, bool)
	SetHTMLChunk(sourceID string, variant types.FragmentVariant, html string, dependsOn []string)
	InvalidateByDependency(dependencyID string)
	InvalidateHTMLChunkCache()
	PurgeExpiredChunks() int
	GetHTMLChunkSummary() map[string]any
}
