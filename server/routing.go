package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/logger"
)

// requestIDHeader carries the request id in both directions.
const requestIDHeader = "X-Request-ID"

func (s *OntographServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /{kind}/query", s.HandleQuery)
	mux.HandleFunc("POST /{kind}", s.HandleCreate)
	mux.HandleFunc("PUT /{kind}", s.HandleUpdate)
	mux.HandleFunc("PUT /{kind}/archive", s.HandleArchive)
	mux.HandleFunc("PUT /{kind}/unarchive", s.HandleUnarchive)
	mux.HandleFunc("POST /accounts", s.HandleInsertAccount)
	mux.HandleFunc("GET /entities", s.HandleLatestEntities)
	mux.HandleFunc("GET /entities/{uuid}", s.HandleLatestEntity)
	mux.HandleFunc("GET /version", s.HandleVersion)

	return s.logRequests(s.corsMiddleware(s.rateLimit(mux)))
}

// corsMiddleware adds CORS headers for configured origins and answers preflight requests.
func (s *OntographServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originAllowed uses prefix matching so any port of an allowed host passes.
func (s *OntographServer) originAllowed(origin string) bool {
	for _, allowed := range *s.origins.Load() {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// rateLimit rejects requests beyond the configured rate with 429.
func (s *OntographServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter := s.limiter.Load(); limiter != nil && !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests tags each request with an id (the caller's, if sent) and
// logs it once served.
func (s *OntographServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(logger.WithRequestID(r.Context(), requestID))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.FromContext(r.Context(), s.logger).Debugw("Request served",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, rec.status,
		)
	})
}
