package stats

import (
	"testing"
	"time"
)

func freshStats() *Stats {
	s := &Stats{StartTime: time.Now()}
	s.minResponseTime.Store(int64(^uint64(0) >> 1))
	return s
}

func TestRecordRequestClassifiesEndpoint(t *testing.T) {
	s := freshStats()
	s.RecordRequest("/search")
	s.RecordRequest("/fetch")
	s.RecordRequest("/fetch_separate")
	s.RecordRequest("/fetch_by_id")
	s.RecordRequest("/health")
	s.RecordRequest("/unknown")

	if got := s.SearchRequests.Load(); got != 1 {
		t.Errorf("SearchRequests = %d, want 1", got)
	}
	if got := s.FetchRequests.Load(); got != 2 {
		t.Errorf("FetchRequests = %d, want 2", got)
	}
	if got := s.FetchByIDRequests.Load(); got != 1 {
		t.Errorf("FetchByIDRequests = %d, want 1", got)
	}
	if got := s.HealthRequests.Load(); got != 1 {
		t.Errorf("HealthRequests = %d, want 1", got)
	}
	if got := s.OtherRequests.Load(); got != 1 {
		t.Errorf("OtherRequests = %d, want 1", got)
	}
	if got := s.TotalRequests.Load(); got != 6 {
		t.Errorf("TotalRequests = %d, want 6", got)
	}
}

func TestCacheHitRate(t *testing.T) {
	s := freshStats()
	if rate := s.CacheHitRate(); rate != 0 {
		t.Errorf("CacheHitRate with no data = %v, want 0", rate)
	}
	s.RecordCacheHit()
	s.RecordCacheHit()
	s.RecordCacheHit()
	s.RecordCacheMiss()
	if rate := s.CacheHitRate(); rate != 75 {
		t.Errorf("CacheHitRate = %v, want 75", rate)
	}
}

func TestRecordStatusCode(t *testing.T) {
	s := freshStats()
	s.RecordStatusCode(200)
	s.RecordStatusCode(404)
	s.RecordStatusCode(500)
	if s.Status2xx.Load() != 1 || s.Status4xx.Load() != 1 || s.Status5xx.Load() != 1 {
		t.Errorf("status buckets = %d/%d/%d, want 1/1/1", s.Status2xx.Load(), s.Status4xx.Load(), s.Status5xx.Load())
	}
}

func TestRecordResponseTimeTracksMinMaxAvg(t *testing.T) {
	s := freshStats()
	s.RecordResponseTime(10 * time.Millisecond)
	s.RecordResponseTime(30 * time.Millisecond)
	s.RecordResponseTime(20 * time.Millisecond)

	if s.MinResponseTime() != 10*time.Millisecond {
		t.Errorf("MinResponseTime = %v, want 10ms", s.MinResponseTime())
	}
	if s.MaxResponseTime() != 30*time.Millisecond {
		t.Errorf("MaxResponseTime = %v, want 30ms", s.MaxResponseTime())
	}
	if avg := s.AvgResponseTime(); avg != 20*time.Millisecond {
		t.Errorf("AvgResponseTime = %v, want 20ms", avg)
	}
}

func TestSnapshotShape(t *testing.T) {
	s := freshStats()
	s.RecordRequest("/search")
	s.RecordCacheHit()
	snap := s.Snapshot()

	for _, key := range []string{"server", "requests", "cache", "responses", "response_times"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("Snapshot() missing key %q", key)
		}
	}
}

func TestGetReturnsSingleton(t *testing.T) {
	if Get() != Get() {
		t.Error("Get() should always return the same instance")
	}
}
