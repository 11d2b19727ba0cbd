package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"citeguard/internal/platform/metrics"
	"citeguard/pkg/requestcontext"
)

// RequestContext copies chi's request id into requestcontext and pins the
// request clock. It must run after chimw.RequestID.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := chimw.GetReqID(ctx); id != "" {
			ctx = requestcontext.WithRequestID(ctx, id)
			w.Header().Set(chimw.RequestIDHeader, id)
		}
		ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CountRequests records one metric per request labelled by route pattern.
func CountRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.IncrementRequests(route, strconv.Itoa(status/100)+"xx")
		})
	}
}
