package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/forgo/jobboard/internal/authz"
	"github.com/forgo/jobboard/internal/model"
)

// Authenticator resolves a bearer credential to a caller
type Authenticator interface {
	Resolve(credential string) (*authz.Identity, error)
}

// Auth returns a middleware that rejects requests without a valid bearer
// token and stores the caller's identity in the request context
func Auth(gate Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			identity, err := gate.Resolve(token)
			if err != nil {
				switch {
				case errors.Is(err, authz.ErrCredentialExpired):
					model.NewTokenExpiredError().WriteJSON(w)
				case errors.Is(err, authz.ErrMissingCredential):
					model.NewUnauthorizedError("missing bearer token").WriteJSON(w)
				default:
					model.NewUnauthorizedError("invalid token").WriteJSON(w)
				}
				return
			}

			noteUser(r.Context(), identity.UserID)
			next.ServeHTTP(w, r.WithContext(authz.WithIdentity(r.Context(), identity)))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
