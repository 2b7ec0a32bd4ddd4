package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/oceanablv/moodq/internal/account"
	"github.com/oceanablv/moodq/internal/journal"
	"github.com/oceanablv/moodq/internal/mood"
	"github.com/oceanablv/moodq/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", w.Header().Get("X-Request-Id"),
			)
		})
	}
}

// RequestIDMiddleware tags every request/response pair with a sortable
// KSUID for log correlation.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = utilities.NewKSUID()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware applies the permissive CORS contract the mobile client
// expects and short-circuits preflight requests.
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// This keeps the project stdlib-only while keeping wiring simple and testable.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /moodq-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	accountHandler := account.NewHandler(db, logger)
	mux.HandleFunc("POST /moodq-api/register", accountHandler.Register)
	mux.HandleFunc("POST /moodq-api/login", accountHandler.Login)
	mux.HandleFunc("POST /moodq-api/request_reset", accountHandler.RequestReset)
	mux.HandleFunc("POST /moodq-api/change_password", accountHandler.ChangePassword)
	mux.HandleFunc("POST /moodq-api/delete_account", accountHandler.DeleteAccount)

	moodHandler := mood.NewHandler(db, logger)
	mux.HandleFunc("POST /moodq-api/add_mood", moodHandler.Add)
	mux.HandleFunc("POST /moodq-api/update_mood", moodHandler.Update)
	mux.HandleFunc("POST /moodq-api/delete_mood", moodHandler.Delete)
	mux.HandleFunc("GET /moodq-api/get_mood_insights", moodHandler.Insights)
	mux.HandleFunc("GET /moodq-api/get_home_stats", moodHandler.HomeStats)

	journalHandler := journal.NewHandler(db, logger)
	mux.HandleFunc("POST /moodq-api/add_journal", journalHandler.Add)
	mux.HandleFunc("POST /moodq-api/update_journal", journalHandler.Update)
	mux.HandleFunc("POST /moodq-api/delete_journal", journalHandler.Delete)
	mux.HandleFunc("GET /moodq-api/get_journals", journalHandler.List)

	// wrap with CORS, then request ids, then logging outermost
	handler := LoggingMiddleware(logger)(RequestIDMiddleware()(CORSMiddleware()(mux)))
	return handler
}
