package middleware

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"drawbase/internal/response"
)

// ContextKey type for context keys set by this package.
type ContextKey string

const (
	UserIDContextKey      ContextKey = "user_id"
	OrgContextKey         ContextKey = "organization"
	PermissionsContextKey ContextKey = "permissions"
)

// Identity resolves the caller from a bearer token. It only authenticates;
// authorization is the gate chain's job.
type Identity struct {
	publicKey *rsa.PublicKey
	rdb       *redis.Client
}

func NewIdentity(publicKey *rsa.PublicKey, rdb *redis.Client) *Identity {
	return &Identity{publicKey: publicKey, rdb: rdb}
}

func (i *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.SendError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return i.publicKey, nil
		})
		if err != nil || !token.Valid {
			response.SendError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.SendError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		// Revoked tokens keep their signature; the blacklist is the only
		// way to reject them before expiry.
		if jti, ok := claims["jti"].(string); ok {
			blacklistKey := fmt.Sprintf("blacklist:access_token:%s", jti)
			val, err := i.rdb.Get(r.Context(), blacklistKey).Result()
			if err == nil && val == "1" {
				response.SendError(w, http.StatusUnauthorized, "Token has been revoked")
				return
			}
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.SendError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated user ID from request context, or ""
// if not set.
func GetUserID(r *http.Request) string {
	if id, ok := r.Context().Value(UserIDContextKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a request whose context carries the given user ID.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserIDContextKey, userID))
}
