package server

import (
	"fmt"
	"net/http"
	"strings"
)

// publicRoutes are served without a session.
var publicRoutes = map[string]struct{}{
	"GET /health":         {},
	"POST /v1/auth/login": {},
}

// withAuth resolves the session token into a principal. Every route outside
// publicRoutes requires one.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicRoutes[r.Method+" "+r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		token := sessionTokenFromRequest(r)
		if token == "" {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
			return
		}
		user, err := s.authService.AuthenticateSessionToken(r.Context(), token, s.now())
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		if user == nil {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid or expired session")))
			return
		}

		ctx := contextWithAuthPrincipal(r.Context(), authPrincipal{User: user, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionTokenFromRequest reads a Bearer token, falling back to the session cookie.
func sessionTokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return strings.ToLower(proto)
	}
	return "http"
}
