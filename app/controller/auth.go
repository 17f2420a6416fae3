package controller

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

type userIDKey struct{}

// WithUserID stores the authenticated user id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, or "" when the request carried no token
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}

// resolveUser prefers the token subject over the user id sent by the client
func resolveUser(r *http.Request, requested string) string {
	if userID := UserIDFromContext(r.Context()); userID != "" {
		return userID
	}
	return strings.TrimSpace(requested)
}

// AuthMiddleware verifies HS256 bearer tokens and puts their subject in the request context.
// Requests without an Authorization header pass through unauthenticated.
// With an empty secret every request passes through.
func AuthMiddleware(secret string, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if secret == "" || header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims := &jwt.StandardClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				logger.Warnf("⚠️ Auth: rejected token on %s %s: %v", r.Method, r.URL.Path, err)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token", ErrorType: "Unauthorized"}, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}
