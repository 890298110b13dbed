package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/savannahlabs/orders-backend/internal/model"
)

// TokenStore looks up issued tokens by jti for revocation checks.
type TokenStore interface {
	GetToken(jti string) (*model.AccessToken, error)
}

func respond(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// RequireScopes authenticates the bearer token and demands every listed
// scope on every verb. List and retrieve routes carry the same read+write
// requirement as mutations; that policy is deliberate.
func RequireScopes(mgr *TokenManager, store TokenStore, log *logrus.Logger, scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond(w, http.StatusUnauthorized, "Invalid authorization header format.")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := mgr.Parse(tokenString)
			if err != nil {
				respond(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			record, err := store.GetToken(claims.ID)
			if err != nil {
				log.Errorf("token lookup failed: %v", err)
				respond(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}
			if record == nil || record.Revoked || time.Now().After(record.ExpiresAt) {
				respond(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			if !HasScopes(claims.Scope, scopes...) {
				respond(w, http.StatusForbidden,
					"You do not have permission to perform this action. Required scopes: "+strings.Join(scopes, " "))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
