package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-storefront/models"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware verifies JWT tokens and attaches user information to the context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}
		tokenStr, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}
		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches the user when a valid token is sent and lets
// anonymous requests through. Guests can check out without an account.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenStr, ok := bearerToken(r); ok {
			if claims, err := utils.ParseJWT(tokenStr); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware ensures that the user has admin privileges
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			http.Error(w, "Forbidden: Admins only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withClaims(ctx context.Context, claims *utils.Claims) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, claims)
	return utils.WithLogger(ctx, utils.Logger(ctx).WithField("user", claims.Email))
}

// ClaimsFromContext returns the claims set by AuthMiddleware or OptionalAuth.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated user's id, or nil for guests and
// tokens without one.
func UserID(ctx context.Context) *primitive.ObjectID {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}
