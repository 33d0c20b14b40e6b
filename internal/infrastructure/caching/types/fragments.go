// Package types holds the data structures kept in caches
package types

import (
	"sync"
	"time"
)

// FragmentVariant distinguishes renderings of the same tree
type FragmentVariant struct {
	Mode            string `json:"mode"`
	WrapInContainer bool   `json:"wrapInContainer"`
	PreviewOfFinal  bool   `json:"previewOfFinal"`
}

// HTMLChunk represents cached markup with the IDs it was rendered from
type HTMLChunk struct {
	HTML        string          `json:"html"`
	SourceID    string          `json:"sourceId"`
	Variant     FragmentVariant `json:"variant"`
	DependsOn   []string        `json:"dependsOn"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// HTMLChunkCache holds rendered fragments and the reverse dependency index
type HTMLChunkCache struct {
	Chunks map[string]*HTMLChunk // "sourceId:variant" -> chunk
	Deps   map[string][]string   // sourceId -> []cacheKeys
	Mu     sync.RWMutex
}
