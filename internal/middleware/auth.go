package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/listoapp/listo/internal/models"
	"github.com/listoapp/listo/internal/services/oidc"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the user from the request context.
func UserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Auth creates authentication middleware that validates bearer tokens
// against the configured OIDC provider. The user is built from token claims
// on every request; the user ID is derived deterministically from issuer and
// subject so it stays stable across requests without any storage.
func Auth(cfg oidc.Config, jwksManager *oidc.JWKSManager) func(http.Handler) http.Handler {
	verifier := oidc.NewVerifier(jwksManager, cfg.Issuer)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1], cfg.JWKSURL)
			if err != nil {
				log.Printf("Token verification failed: %v (issuer: %s)", err, cfg.Issuer)
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user := &models.User{
				ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(claims.Iss+"/"+claims.Sub)),
				Email:      claims.Email,
				Name:       claims.Name,
				ProviderID: claims.Sub,
				SeenAt:     time.Now().UTC(),
			}

			ctx = context.WithValue(ctx, userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
