package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/log"
)

type ctxKey struct{}

// OwnerFromContext returns the authenticated caller set by authenticate.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ctxKey{}).(string)
	return owner, ok && owner != ""
}

// authenticate verifies an HS256 bearer token and stores its subject as
// the caller identity.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, err := s.verify(r.Header.Get("Authorization"))
		if err != nil {
			log.Debug("rejecting request", "path", r.URL.Path, "error", err)
			writeError(w, apperr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, owner)))
	})
}

func (s *Server) verify(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", apperr.ErrUnauthenticated
	}
	token, err := jwt.Parse(strings.TrimSpace(raw), func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", apperr.ErrUnauthenticated
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.ErrUnauthenticated
	}
	return sub, nil
}
