package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type contextKey string

const userContextKey contextKey = "user"

// authMiddleware resolves the bearer token into the current user record and
// stores it in the request context. The token is taken from the
// Authorization header first, then from the auth cookie.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		user, err := s.users.VerifyToken(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return after
		}
		return ""
	}
	if c, err := r.Cookie(common.AuthTokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// currentUser returns the authenticated user placed by authMiddleware.
func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey).(*models.User)
	return u
}
