package middleware

import (
	"context"
	"net/http"
	"strings"

	"pharmalink/internal/domain/entity"
	"pharmalink/internal/infrastructure/cache"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/jwt"
	"pharmalink/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserPhoneKey contextKey = "user_phone"
	RoleKey      contextKey = "role"
	TokenIDKey   contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokens     cache.TokenStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokens cache.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokens:     tokens,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))

		tokenString := bearerToken(r)
		if tokenString == "" {
			response.Unauthorized(w, i18n.T(lang, i18n.MsgAuthHeaderRequired))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, i18n.T(lang, i18n.MsgInvalidToken))
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, i18n.T(lang, i18n.MsgInvalidToken))
			return
		}

		// Check if token exists in Redis (not revoked)
		exists, err := m.tokens.Exists(r.Context(), cache.AccessTokenKind, claims.UserID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, i18n.T(lang, i18n.MsgInternal))
			return
		}
		if !exists {
			response.Unauthorized(w, i18n.T(lang, i18n.MsgTokenRevoked))
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// access_token query parameter for WebSocket upgrades from browsers.
func bearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return ""
		}
		return parts[1]
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// ContextWithClaims stores the authenticated actor on ctx.
func ContextWithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserPhoneKey, claims.Phone)
	ctx = context.WithValue(ctx, RoleKey, entity.Role(claims.Role))
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserPhoneFromContext extracts the phone number from context
func GetUserPhoneFromContext(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(UserPhoneKey).(string)
	return phone, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleFromContext extracts the actor role from context
func GetRoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(RoleKey).(entity.Role)
	return role, ok
}
