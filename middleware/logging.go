package middleware

import (
	"net/http"
	"time"

	"go-storefront/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogger tags every request with an id, stores a request-scoped
// logrus entry in the context and logs the outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)

		entry := log.WithFields(log.Fields{
			"req_id": reqID,
			"method": r.Method,
			"path":   r.URL.Path,
			"remote": ClientIP(r),
		})
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(utils.WithLogger(r.Context(), entry)))

		fields := log.Fields{
			"status":     rec.status,
			"dur_ms":     time.Since(start).Milliseconds(),
			"resp_bytes": rec.bytes,
		}
		if rec.status >= http.StatusInternalServerError {
			entry.WithFields(fields).Error("http_request")
			return
		}
		entry.WithFields(fields).Info("http_request")
	})
}
