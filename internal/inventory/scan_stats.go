package inventory

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/logflix/logflix/internal/data/cache"
	"github.com/logflix/logflix/internal/util"
)

// Translate cache miss reason to English string for logging
func cacheMissReasonString(r cache.CacheMissReason) string {
	switch r {
	case cache.MissReasonNone:
		return "none"
	case cache.MissReasonError:
		return "Cache read error"
	case cache.MissReasonInode:
		return "File inode changed"
	case cache.MissReasonSize:
		return "File size changed"
	case cache.MissReasonModTime:
		return "Modification time changed"
	case cache.MissReasonFingerprint:
		return "File fingerprint changed"
	case cache.MissReasonNoFingerprint:
		return "Cached file has no fingerprint"
	case cache.MissReasonNotFound:
		return "Cache not found"
	default:
		return "Unknown reason"
	}
}

// ScanStats tracks cache effectiveness while an inventory pass runs.
type ScanStats struct {
	hits     int64
	misses   int64
	failures int64
	mu       sync.Mutex
	missLog  []missDetail
}

type missDetail struct {
	FilePath string
	Reason   cache.CacheMissReason
}

func NewScanStats() *ScanStats {
	return &ScanStats{
		missLog: make([]missDetail, 0),
	}
}

// RecordHit counts a summary served straight from cache.
func (s *ScanStats) RecordHit() {
	atomic.AddInt64(&s.hits, 1)
}

// RecordMiss counts a re-parsed file and remembers why its cache entry
// was rejected.
func (s *ScanStats) RecordMiss(filePath string, reason cache.CacheMissReason) {
	atomic.AddInt64(&s.misses, 1)

	s.mu.Lock()
	s.missLog = append(s.missLog, missDetail{
		FilePath: filePath,
		Reason:   reason,
	})
	s.mu.Unlock()
}

// RecordFailure counts a file that could not be parsed at all.
func (s *ScanStats) RecordFailure() {
	atomic.AddInt64(&s.failures, 1)
}

// Snapshot returns the current counters and the hit rate in percent.
func (s *ScanStats) Snapshot() (total, hits, misses, failures int64, hitRate float64) {
	hits = atomic.LoadInt64(&s.hits)
	misses = atomic.LoadInt64(&s.misses)
	failures = atomic.LoadInt64(&s.failures)
	total = hits + misses + failures

	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return
}

// LogProgress logs the current inventory progress and cache hit rate.
func (s *ScanStats) LogProgress(processed int64) {
	total, hits, misses, failures, hitRate := s.Snapshot()

	util.LogInfo(fmt.Sprintf("Inventory progress: processed %d/%d files, cache hit rate: %.1f%% (%d hits/%d misses/%d failures)",
		processed, total, hitRate, hits, misses, failures))
}

// LogFinal logs the closing statistics and a per-reason miss summary.
func (s *ScanStats) LogFinal() {
	total, hits, misses, failures, hitRate := s.Snapshot()

	util.LogInfo(fmt.Sprintf("Inventory complete: %d files, cache hit rate %.1f%% (%d hits/%d misses/%d failures)",
		total, hitRate, hits, misses, failures))

	if misses == 0 {
		return
	}

	s.mu.Lock()
	reasonCounts := make(map[cache.CacheMissReason]int)
	for _, detail := range s.missLog {
		reasonCounts[detail.Reason]++
	}
	missLog := make([]missDetail, len(s.missLog))
	copy(missLog, s.missLog)
	s.mu.Unlock()

	util.LogInfo("Cache miss reason summary:")
	for reason, count := range reasonCounts {
		util.LogInfo(fmt.Sprintf("  %s: %d files", cacheMissReasonString(reason), count))
	}

	util.LogDebug("Files missed in cache:")
	for _, detail := range missLog {
		util.LogDebug(fmt.Sprintf("  %s (%s)", detail.FilePath, cacheMissReasonString(detail.Reason)))
	}
}
