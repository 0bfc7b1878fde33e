// Package stats tracks in-memory, process-lifetime counters for the HTTP
// server: per-endpoint request counts, cache hit/miss rates, and response
// time min/avg/max. Nothing here is persisted, per this system's
// in-memory-only cache policy.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds all server statistics with atomic counters.
type Stats struct {
	StartTime time.Time

	TotalRequests     atomic.Int64
	SearchRequests    atomic.Int64
	FetchRequests     atomic.Int64
	FetchByIDRequests atomic.Int64
	HealthRequests    atomic.Int64
	OtherRequests     atomic.Int64

	CacheHits   atomic.Int64
	CacheMisses atomic.Int64

	Status2xx atomic.Int64
	Status4xx atomic.Int64
	Status5xx atomic.Int64

	totalResponseTime atomic.Int64
	responseCount     atomic.Int64
	minResponseTime   atomic.Int64
	maxResponseTime   atomic.Int64
	responseMu        sync.RWMutex
}

// Global stats instance
var global = &Stats{
	StartTime: time.Now(),
}

func init() {
	global.minResponseTime.Store(int64(^uint64(0) >> 1)) // Max int64
}

// Get returns the global stats instance
func Get() *Stats {
	return global
}

// RecordRequest records a request to a specific endpoint
func (s *Stats) RecordRequest(endpoint string) {
	s.TotalRequests.Add(1)
	switch endpoint {
	case "/search":
		s.SearchRequests.Add(1)
	case "/fetch", "/fetch_separate":
		s.FetchRequests.Add(1)
	case "/fetch_by_id", "/fetch_by_id_separate":
		s.FetchByIDRequests.Add(1)
	case "/health":
		s.HealthRequests.Add(1)
	default:
		s.OtherRequests.Add(1)
	}
}

// RecordCacheHit records a cache hit
func (s *Stats) RecordCacheHit() {
	s.CacheHits.Add(1)
}

// RecordCacheMiss records a cache miss
func (s *Stats) RecordCacheMiss() {
	s.CacheMisses.Add(1)
}

// RecordStatusCode records a response status code
func (s *Stats) RecordStatusCode(code int) {
	switch {
	case code >= 200 && code < 300:
		s.Status2xx.Add(1)
	case code >= 400 && code < 500:
		s.Status4xx.Add(1)
	case code >= 500:
		s.Status5xx.Add(1)
	}
}

// RecordResponseTime records a response time
func (s *Stats) RecordResponseTime(duration time.Duration) {
	us := duration.Microseconds()

	s.totalResponseTime.Add(us)
	s.responseCount.Add(1)

	// Update min/max atomically
	for {
		current := s.minResponseTime.Load()
		if us >= current || s.minResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
	for {
		current := s.maxResponseTime.Load()
		if us <= current || s.maxResponseTime.CompareAndSwap(current, us) {
			break
		}
	}
}

// Uptime returns the server uptime
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// CacheHitRate returns the cache hit rate as a percentage
func (s *Stats) CacheHitRate() float64 {
	hits := s.CacheHits.Load()
	misses := s.CacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// AvgResponseTime returns the average response time
func (s *Stats) AvgResponseTime() time.Duration {
	count := s.responseCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(s.totalResponseTime.Load()/count) * time.Microsecond
}

// MinResponseTime returns the minimum response time
func (s *Stats) MinResponseTime() time.Duration {
	min := s.minResponseTime.Load()
	if min == int64(^uint64(0)>>1) {
		return 0
	}
	return time.Duration(min) * time.Microsecond
}

// MaxResponseTime returns the maximum response time
func (s *Stats) MaxResponseTime() time.Duration {
	return time.Duration(s.maxResponseTime.Load()) * time.Microsecond
}

// Snapshot returns a point-in-time snapshot of all stats
func (s *Stats) Snapshot() map[string]interface{} {
	uptime := s.Uptime()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"start_time":     s.StartTime.Format(time.RFC3339),
			"uptime":         uptime.String(),
			"uptime_seconds": int64(uptime.Seconds()),
		},
		"requests": map[string]interface{}{
			"total":       s.TotalRequests.Load(),
			"search":      s.SearchRequests.Load(),
			"fetch":       s.FetchRequests.Load(),
			"fetch_by_id": s.FetchByIDRequests.Load(),
			"health":      s.HealthRequests.Load(),
			"other":       s.OtherRequests.Load(),
		},
		"cache": map[string]interface{}{
			"hits":     s.CacheHits.Load(),
			"misses":   s.CacheMisses.Load(),
			"hit_rate": s.CacheHitRate(),
		},
		"responses": map[string]interface{}{
			"2xx": s.Status2xx.Load(),
			"4xx": s.Status4xx.Load(),
			"5xx": s.Status5xx.Load(),
		},
		"response_times": map[string]interface{}{
			"avg": s.AvgResponseTime().String(),
			"min": s.MinResponseTime().String(),
			"max": s.MaxResponseTime().String(),
		},
	}
}
