package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/padel-api/padel-api/pkg/app/metrics"
	common "github.com/padel-api/padel-api/pkg/domain"
)

// Identity headers set by the authenticating gateway in front of this
// service. The core never sees tokens.
const (
	headerUserID    = "X-User-Id"
	headerSuperuser = "X-Superuser"
)

// IdentityMiddleware lifts the gateway-resolved identity into the request
// context. Requests without an identity proceed unauthenticated; each usecase
// decides what it requires.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if raw := r.Header.Get(headerUserID); raw != "" {
			userID, err := uuid.Parse(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed identity header", Kind: common.KindInvalidInput})
				return
			}
			owner := common.ResourceOwner{
				UserID:      userID,
				IsSuperuser: r.Header.Get(headerSuperuser) == "true",
			}
			ctx = context.WithValue(ctx, common.AuthenticatedKey, true)
			ctx = context.WithValue(ctx, common.ResourceOwnerKey, owner)
		}

		addr := r.Header.Get("X-Forwarded-For")
		if addr == "" {
			addr, _, _ = net.SplitHostPort(r.RemoteAddr)
		}
		ctx = context.WithValue(ctx, common.ClientAddressKey, addr)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware emits one access log line per request.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &accessRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method, "path", r.URL.Path, "status", rec.status,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

type accessRecorder struct {
	http.ResponseWriter
	status int
}

func (r *accessRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware feeds the request duration histogram, labelled by the mux
// path template so ids do not explode cardinality.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &accessRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}
			m.ObserveRequest(route, r.Method, rec.status, time.Since(start))
		})
	}
}
