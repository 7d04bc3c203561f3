// Package metrics collects business counters for the document service.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// ServiceMetrics tracks pipeline activity since process start.
type ServiceMetrics struct {
	// ingestion
	documentsIngested uint64
	chunksIngested    uint64
	ingestErrors      uint64

	// retrieval
	searchesTotal uint64
	searchErrors  uint64

	// deletion
	documentsDeleted uint64

	// chat
	chatTotal     uint64
	chatCacheHits uint64
	chatErrors    uint64
	chatDuration  float64

	// embedding provider calls
	embedCalls    uint64
	embedDuration float64
	embedErrors   uint64

	durationMu sync.Mutex
	startTime  time.Time
}

var (
	global *ServiceMetrics
	once   sync.Once
)

// Get returns the process-wide metrics instance.
func Get() *ServiceMetrics {
	once.Do(func() {
		global = &ServiceMetrics{startTime: time.Now()}
	})
	return global
}

// RecordIngest records one document ingestion.
func (m *ServiceMetrics) RecordIngest(chunks int, err error) {
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsIngested, 1)
	atomic.AddUint64(&m.chunksIngested, uint64(chunks))
}

// RecordSearch records one user-facing search.
func (m *ServiceMetrics) RecordSearch(err error) {
	atomic.AddUint64(&m.searchesTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.searchErrors, 1)
	}
}

// RecordDeletion records one document deletion.
func (m *ServiceMetrics) RecordDeletion() {
	atomic.AddUint64(&m.documentsDeleted, 1)
}

// RecordChat records one chat turn.
func (m *ServiceMetrics) RecordChat(duration time.Duration, cacheHit bool, err error) {
	atomic.AddUint64(&m.chatTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.chatErrors, 1)
		return
	}
	if cacheHit {
		atomic.AddUint64(&m.chatCacheHits, 1)
	}
	m.durationMu.Lock()
	m.chatDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordEmbedding records one embedding provider call.
func (m *ServiceMetrics) RecordEmbedding(duration time.Duration, err error) {
	atomic.AddUint64(&m.embedCalls, 1)
	if err != nil {
		atomic.AddUint64(&m.embedErrors, 1)
		return
	}
	m.durationMu.Lock()
	m.embedDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// Stats returns the current counters for the stats endpoint.
func (m *ServiceMetrics) Stats() map[string]any {
	m.durationMu.Lock()
	chatDuration := m.chatDuration
	embedDuration := m.embedDuration
	m.durationMu.Unlock()

	chatTotal := atomic.LoadUint64(&m.chatTotal)
	avgChat := 0.0
	if chatTotal > 0 {
		avgChat = chatDuration / float64(chatTotal)
	}

	embedCalls := atomic.LoadUint64(&m.embedCalls)
	avgEmbed := 0.0
	if embedCalls > 0 {
		avgEmbed = embedDuration / float64(embedCalls)
	}

	return map[string]any{
		"ingestion": map[string]any{
			"documents": atomic.LoadUint64(&m.documentsIngested),
			"chunks":    atomic.LoadUint64(&m.chunksIngested),
			"errors":    atomic.LoadUint64(&m.ingestErrors),
		},
		"search": map[string]any{
			"total":  atomic.LoadUint64(&m.searchesTotal),
			"errors": atomic.LoadUint64(&m.searchErrors),
		},
		"deletion": map[string]any{
			"documents": atomic.LoadUint64(&m.documentsDeleted),
		},
		"chat": map[string]any{
			"total":             chatTotal,
			"cache_hits":        atomic.LoadUint64(&m.chatCacheHits),
			"errors":            atomic.LoadUint64(&m.chatErrors),
			"avg_duration_secs": avgChat,
		},
		"embedding": map[string]any{
			"calls":             embedCalls,
			"errors":            atomic.LoadUint64(&m.embedErrors),
			"avg_duration_secs": avgEmbed,
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Reset clears all counters. Test use only.
func (m *ServiceMetrics) Reset() {
	atomic.StoreUint64(&m.documentsIngested, 0)
	atomic.StoreUint64(&m.chunksIngested, 0)
	atomic.StoreUint64(&m.ingestErrors, 0)
	atomic.StoreUint64(&m.searchesTotal, 0)
	atomic.StoreUint64(&m.searchErrors, 0)
	atomic.StoreUint64(&m.documentsDeleted, 0)
	atomic.StoreUint64(&m.chatTotal, 0)
	atomic.StoreUint64(&m.chatCacheHits, 0)
	atomic.StoreUint64(&m.chatErrors, 0)
	atomic.StoreUint64(&m.embedCalls, 0)
	atomic.StoreUint64(&m.embedErrors, 0)

	m.durationMu.Lock()
	m.chatDuration = 0
	m.embedDuration = 0
	m.startTime = time.Now()
	m.durationMu.Unlock()
}
