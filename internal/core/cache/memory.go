package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/util"
)

// DocumentCacheEntry pairs a parsed document with the file identity it was
// parsed from, plus access time tracking for eviction.
type DocumentCacheEntry struct {
	Document     *cast.Document
	ModTime      int64
	Size         int64
	Inode        uint64
	LastAccessed int64
}

// DocumentCache keeps fully parsed cast documents in memory for the HTTP
// server, where many clients replay the same handful of sessions. Entries
// are validated against the file on disk before every hit, so a rewritten
// cast is never served stale.
type DocumentCache struct {
	mu       sync.Mutex
	entries  map[string]*DocumentCacheEntry
	capacity int
}

// NewDocumentCache creates a cache holding at most capacity documents.
func NewDocumentCache(capacity int) *DocumentCache {
	if capacity < 1 {
		capacity = 1
	}
	return &DocumentCache{
		entries:  make(map[string]*DocumentCacheEntry),
		capacity: capacity,
	}
}

// Get returns the cached document for path when the file on disk still
// matches the identity captured at Set time.
func (dc *DocumentCache) Get(path string) (*cast.Document, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.entries[path]
	if !ok {
		return nil, false
	}

	info, err := util.GetFileInfo(path)
	if err != nil || info.Inode != entry.Inode || info.Size != entry.Size || info.ModTime != entry.ModTime {
		util.LogDebug(fmt.Sprintf("Document cache invalidated for %s", path))
		delete(dc.entries, path)
		return nil, false
	}

	entry.LastAccessed = time.Now().UnixNano()
	return entry.Document, true
}

// Set stores a parsed document keyed by its source path, evicting the
// least recently used entry when the cache is full.
func (dc *DocumentCache) Set(path string, doc *cast.Document) error {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return err
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	if _, exists := dc.entries[path]; !exists && len(dc.entries) >= dc.capacity {
		dc.evictOldest()
	}

	dc.entries[path] = &DocumentCacheEntry{
		Document:     doc,
		ModTime:      info.ModTime,
		Size:         info.Size,
		Inode:        info.Inode,
		LastAccessed: time.Now().UnixNano(),
	}
	return nil
}

// Invalidate drops the entry for a path, typically on a watcher event.
func (dc *DocumentCache) Invalidate(path string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	delete(dc.entries, path)
}

// Clear drops every entry.
func (dc *DocumentCache) Clear() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.entries = make(map[string]*DocumentCacheEntry)
}

// Len reports the number of cached documents.
func (dc *DocumentCache) Len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.entries)
}

// evictOldest removes the least recently accessed entry. Callers hold the
// lock.
func (dc *DocumentCache) evictOldest() {
	var (
		oldestPath string
		oldestAt   int64
	)
	for path, entry := range dc.entries {
		if oldestPath == "" || entry.LastAccessed < oldestAt {
			oldestPath = path
			oldestAt = entry.LastAccessed
		}
	}
	if oldestPath != "" {
		util.LogDebug(fmt.Sprintf("Document cache evicting %s", oldestPath))
		delete(dc.entries, oldestPath)
	}
}
