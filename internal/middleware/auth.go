package middleware

import (
	"context"
	"net/http"
	"strings"

	"medscan-backend/internal/models"
	"medscan-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware verifies the bearer token and resolves it to an identity.
// Every failure path returns the same unauthorized response: the caller
// must not be able to tell a bad signature from an unknown user.
func AuthMiddleware(tokens *services.TokenService, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w)
				return
			}

			subjectID, err := tokens.Verify(token)
			if err != nil {
				log.Debug().Err(err).Msg("Token rejected")
				respondUnauthorized(w)
				return
			}

			identity, err := users.ResolveIdentity(r.Context(), subjectID)
			if err != nil {
				log.Debug().Err(err).Str("subject", subjectID).Msg("Identity rejected")
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the authenticated user from context.
func GetIdentity(ctx context.Context) *models.User {
	identity, ok := ctx.Value(identityKey).(*models.User)
	if !ok {
		return nil
	}
	return identity
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"not authorized"}`))
}
