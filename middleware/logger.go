package middleware

import (
	"net/http"
	"time"

	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/stats"

	log "github.com/sirupsen/logrus"
)

// ResponseRecorder wraps an http.ResponseWriter to capture the status code
// and body size written by a downstream handler, for access logging.
type ResponseRecorder struct {
	http.ResponseWriter
	StatusCode int
	BodySize   int
}

// NewResponseRecorder wraps w with a default status code of 200, matching
// the behavior of an http.ResponseWriter that never had WriteHeader called.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, StatusCode: http.StatusOK}
}

func (r *ResponseRecorder) WriteHeader(statusCode int) {
	r.StatusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *ResponseRecorder) Write(data []byte) (int, error) {
	n, err := r.ResponseWriter.Write(data)
	r.BodySize += n
	return n, err
}

func getStatusColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return logcolors.Green
	case statusCode >= 300 && statusCode < 400:
		return logcolors.Cyan
	case statusCode >= 400 && statusCode < 500:
		return "\033[33m"
	case statusCode >= 500:
		return logcolors.Red
	default:
		return logcolors.Reset
	}
}

// LoggingMiddleware logs method, path, status code, body size, and duration
// for every request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewResponseRecorder(w)

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		stats.Get().RecordStatusCode(rec.StatusCode)
		stats.Get().RecordResponseTime(duration)
		color := getStatusColor(rec.StatusCode)
		log.Infof("%s %s%d%s %s %s %dB %s", logcolors.LogHTTP, color, rec.StatusCode, logcolors.Reset,
			r.Method, r.URL.Path, rec.BodySize, duration)
	})
}
