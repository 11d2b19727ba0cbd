package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "citeguard/pkg/domain-errors"
	"citeguard/pkg/platform/httputil"
	"citeguard/pkg/requestcontext"
)

// TokenValidator validates bearer tokens and returns the token subject.
type TokenValidator interface {
	ValidateToken(tokenString string) (subject string, err error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject on the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			subject, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSubject(ctx, subject)))
		})
	}
}
