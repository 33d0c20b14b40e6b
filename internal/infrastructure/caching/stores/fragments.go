// Package stores provides concrete cache store implementations
package stores

import (
	"strconv"
	"strings"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
)

// FragmentsStore implements rendered markup caching with dependency invalidation
type FragmentsStore struct {
	cache  *types.HTMLChunkCache
	ttl    time.Duration
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewFragmentsStore creates a new fragments cache store. A ttl of zero keeps chunks until invalidated.
func NewFragmentsStore(ttl time.Duration, logger *logging.ChanneledLogger) *FragmentsStore {
	return &FragmentsStore{
		cache: &types.HTMLChunkCache{
			Chunks: make(map[string]*types.HTMLChunk),
			Deps:   make(map[string][]string),
		},
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// =============================================================================
// HTML Chunk Operations
// =============================================================================

// GetHTMLChunk retrieves a chunk rendered from sourceID with the given variant
func (fs *FragmentsStore) GetHTMLChunk(sourceID string, variant types.FragmentVariant) (*types.HTMLChunk, bool) {
	start := fs.now()
	chunkKey := fs.BuildChunkKey(sourceID, variant)

	fs.cache.Mu.RLock()
	chunk, exists := fs.cache.Chunks[chunkKey]
	fs.cache.Mu.RUnlock()

	hit := exists && !fs.expired(chunk)
	if fs.logger != nil {
		fs.logger.LogCacheOperation("get", chunkKey, hit, fs.now().Sub(start))
	}
	if !hit {
		return nil, false
	}
	return chunk, true
}

// SetHTMLChunk stores markup along with the IDs whose change invalidates it
func (fs *FragmentsStore) SetHTMLChunk(sourceID string, variant types.FragmentVariant, html string, dependsOn []string) {
	chunkKey := fs.BuildChunkKey(sourceID, variant)

	fs.cache.Mu.Lock()
	defer fs.cache.Mu.Unlock()

	fs.cache.Chunks[chunkKey] = &types.HTMLChunk{
		HTML:        html,
		SourceID:    sourceID,
		Variant:     variant,
		DependsOn:   dependsOn,
		LastUpdated: fs.now().UTC(),
	}
	fs.updateDependencies(chunkKey, append([]string{sourceID}, dependsOn...))

	if fs.logger != nil {
		fs.logger.LogCacheOperation("set", chunkKey, false, 0)
	}
}

// BuildChunkKey creates a unique key for a source ID and variant
func (fs *FragmentsStore) BuildChunkKey(sourceID string, variant types.FragmentVariant) string {
	mode := variant.Mode
	if mode == "" {
		mode = "default"
	}
	return sourceID + ":" + mode +
		":wrap-" + strconv.FormatBool(variant.WrapInContainer) +
		":pof-" + strconv.FormatBool(variant.PreviewOfFinal)
}

func (fs *FragmentsStore) expired(chunk *types.HTMLChunk) bool {
	return fs.ttl > 0 && fs.now().Sub(chunk.LastUpdated) > fs.ttl
}

// updateDependencies updates the dependency mappings for invalidation; callers hold the lock
func (fs *FragmentsStore) updateDependencies(chunkKey string, dependsOn []string) {
	for _, depID := range dependsOn {
		found := false
		for _, existingKey := range fs.cache.Deps[depID] {
			if existingKey == chunkKey {
				found = true
				break
			}
		}
		if !found {
			fs.cache.Deps[depID] = append(fs.cache.Deps[depID], chunkKey)
		}
	}
}

// =============================================================================
// Dependency-Based Invalidation Operations
// =============================================================================

// InvalidateByDependency invalidates all chunks that depend on a specific ID
func (fs *FragmentsStore) InvalidateByDependency(dependencyID string) {
	fs.cache.Mu.Lock()
	defer fs.cache.Mu.Unlock()

	dependentKeys, exists := fs.cache.Deps[dependencyID]
	if !exists {
		return
	}

	for _, chunkKey := range dependentKeys {
		delete(fs.cache.Chunks, chunkKey)
	}
	delete(fs.cache.Deps, dependencyID)
	fs.cleanupOrphanedDependencies(dependentKeys)

	if fs.logger != nil {
		fs.logger.Cache().Debug("Invalidated fragments", "dependency", dependencyID, "count", len(dependentKeys))
	}
}

// cleanupOrphanedDependencies removes chunk references from dependency mappings when chunks are deleted
func (fs *FragmentsStore) cleanupOrphanedDependencies(deletedChunkKeys []string) {
	deleted := make(map[string]bool, len(deletedChunkKeys))
	for _, k := range deletedChunkKeys {
		deleted[k] = true
	}

	for depID, chunkKeys := range fs.cache.Deps {
		filteredKeys := make([]string, 0, len(chunkKeys))
		for _, chunkKey := range chunkKeys {
			if !deleted[chunkKey] {
				filteredKeys = append(filteredKeys, chunkKey)
			}
		}
		if len(filteredKeys) == 0 {
			delete(fs.cache.Deps, depID)
		} else {
			fs.cache.Deps[depID] = filteredKeys
		}
	}
}

// InvalidateByPattern invalidates chunks matching a pattern; "id:*" matches every variant of id
func (fs *FragmentsStore) InvalidateByPattern(pattern string) {
	fs.cache.Mu.Lock()
	defer fs.cache.Mu.Unlock()

	keysToDelete := make([]string, 0)
	for chunkKey := range fs.cache.Chunks {
		if matchesPattern(chunkKey, pattern) {
			keysToDelete = append(keysToDelete, chunkKey)
		}
	}
	for _, chunkKey := range keysToDelete {
		delete(fs.cache.Chunks, chunkKey)
	}
	fs.cleanupOrphanedDependencies(keysToDelete)
}

func matchesPattern(chunkKey, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasSuffix(prefix, ":") {
		return strings.HasPrefix(chunkKey, prefix)
	}
	return chunkKey == pattern
}

// =============================================================================
// Cache Management Operations
// =============================================================================

// InvalidateHTMLChunkCache clears every chunk
func (fs *FragmentsStore) InvalidateHTMLChunkCache() {
	fs.cache.Mu.Lock()
	defer fs.cache.Mu.Unlock()

	fs.cache.Chunks = make(map[string]*types.HTMLChunk)
	fs.cache.Deps = make(map[string][]string)
}

// GetHTMLChunkSummary returns cache status summary for debugging
func (fs *FragmentsStore) GetHTMLChunkSummary() map[string]any {
	fs.cache.Mu.RLock()
	defer fs.cache.Mu.RUnlock()

	activeChunks := 0
	expiredChunks := 0
	for _, chunk := range fs.cache.Chunks {
		if fs.expired(chunk) {
			expiredChunks++
		} else {
			activeChunks++
		}
	}

	return map[string]any{
		"totalChunks":   len(fs.cache.Chunks),
		"activeChunks":  activeChunks,
		"expiredChunks": expiredChunks,
		"dependencies":  len(fs.cache.Deps),
		"ttl":           fs.ttl.String(),
		"currentTime":   fs.now().UTC(),
	}
}

// PurgeExpiredChunks removes expired chunks and reports how many were dropped
func (fs *FragmentsStore) PurgeExpiredChunks() int {
	fs.cache.Mu.Lock()
	defer fs.cache.Mu.Unlock()

	expiredKeys := make([]string, 0)
	for chunkKey, chunk := range fs.cache.Chunks {
		if fs.expired(chunk) {
			expiredKeys = append(expiredKeys, chunkKey)
		}
	}
	for _, chunkKey := range expiredKeys {
		delete(fs.cache.Chunks, chunkKey)
	}
	fs.cleanupOrphanedDependencies(expiredKeys)

	return len(expiredKeys)
}
