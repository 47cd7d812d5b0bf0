package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"hirehelper-service/logging"
	"hirehelper-service/models"
	"hirehelper-service/repositories"
	"hirehelper-service/services"
	"hirehelper-service/utils"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// AuthMiddleware razrešava sesijski token u lokalnog korisnika
type AuthMiddleware struct {
	identity services.IdentityClient
	users    services.UserStore
}

func NewAuthMiddleware(identity services.IdentityClient, users services.UserStore) *AuthMiddleware {
	return &AuthMiddleware{identity: identity, users: users}
}

// UserFrom vraća autentifikovanog korisnika iz konteksta zahteva
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func (m *AuthMiddleware) resolve(r *http.Request) (*models.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, utils.NewUnauthenticated("Authorization header missing")
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		return nil, utils.NewUnauthenticated("Invalid authorization header")
	}

	externalID, err := m.identity.VerifySession(r.Context(), tokenStr)
	if err != nil {
		logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
		return nil, utils.NewUnauthenticated("Invalid token")
	}

	user, err := m.users.FindByExternalID(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NewUnauthenticated("User not found")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, utils.NewForbidden("Account is deactivated")
	}

	return user, nil
}

// RequireAuth odbija zahtev bez važećeg identiteta
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolve(r)
		if err != nil {
			utils.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth dodaje korisnika u kontekst ako je token važeći,
// a zahtev propušta i bez njega
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}
