package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"roombook/pkg/auth"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
)

const principalKey contextKey = "principal"

// TokenVerifier turns a bearer token into a principal.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// Authenticate requires a valid bearer token and stores the resulting
// principal in the request context.
func Authenticate(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Warn("Missing or malformed bearer token",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
				)
				writeRejection(w, log, "Authenticate", apperrors.Unauthorized("Missing bearer token"))
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				log.Warn("Bearer token rejected",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				message := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					message = "Token expired"
				}
				writeRejection(w, log, "Authenticate", apperrors.Unauthorized(message))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole guards a single route. Authenticate must run first.
func RequireRole(role string, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeRejection(w, log, "RequireRole", apperrors.Unauthorized("Authentication required"))
			return
		}
		if principal.Role != role {
			log.Warn("Role check failed",
				"request_id", RequestID(r.Context()),
				"member_id", principal.MemberID,
				"role", principal.Role,
				"required_role", role,
				"path", r.URL.Path,
			)
			writeRejection(w, log, "RequireRole", apperrors.Forbidden("Insufficient role"))
			return
		}
		next(w, r, ps)
	}
}

func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
