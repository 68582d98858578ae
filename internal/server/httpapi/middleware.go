package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type contextKey int

const (
	callerContextKey contextKey = iota
	requestInfoContextKey
)

// CallerFromContext returns the identity the guard middleware resolved for
// this request, or nil on unguarded routes.
func CallerFromContext(ctx context.Context) *identity.PublicIdentity {
	c, _ := ctx.Value(callerContextKey).(*identity.PublicIdentity)
	return c
}

// requestInfo lets inner middleware report back to the logging middleware.
type requestInfo struct {
	username string
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware logs one line per request. The level follows the
// status: warn from 400, error from 500.
func NewLoggingMiddleware(log logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{}
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoContextKey, info)))

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.statusCode,
				"duration_ms", float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				args = append(args, "request_id", id)
			}
			if info.username != "" {
				args = append(args, "username", info.username)
			}

			switch {
			case rec.statusCode >= 500:
				log.Error(r.Context(), "http_request", args...)
			case rec.statusCode >= 400:
				log.Warn(r.Context(), "http_request", args...)
			default:
				log.Info(r.Context(), "http_request", args...)
			}
		})
	}
}

func NewRecoveryMiddleware(log logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					log.Error(r.Context(), "panic recovered",
						"panic", p,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeDetail(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NewGuardMiddleware runs the guard chain on the Authorization header and, when it
// authorizes, hands the caller to the next handler through the context.
func NewGuardMiddleware(svc IdentityService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := svc.ResolveAuthorization(r.Context(), r.Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				writeError(w, err)
				return
			}

			if info, ok := r.Context().Value(requestInfoContextKey).(*requestInfo); ok {
				info.username = caller.Username
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerContextKey, caller)))
		})
	}
}
