package middleware

import (
	"net/http"

	"pharmalink/internal/domain/entity"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))

			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, i18n.T(lang, i18n.MsgInvalidToken))
				return
			}

			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, i18n.T(lang, i18n.MsgForbidden))
		})
	}
}

// RequireAgent is a convenience middleware for agent-only endpoints
func RequireAgent(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAgent)(next)
}

// RequireClient is a convenience middleware for client-only endpoints
func RequireClient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleClient)(next)
}
