package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rfagundes/quality-control/internal/audit"
	"github.com/rfagundes/quality-control/internal/auth"
)

type contextKey string

const callerKey contextKey = "caller"

func callerFromContext(ctx context.Context) *auth.User {
	user, _ := ctx.Value(callerKey).(*auth.User)
	return user
}

// basicAuthMiddleware resolves the calling user from HTTP basic auth.
// Authentication itself (including the audit record of the attempt)
// lives in the auth service; this layer only translates to 401.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.service.Login(username, password)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// auditMiddleware records every API request through the asynchronous
// audit pipeline.
func (s *Server) auditMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrw := newResponseWriterWrapper(w)
		next.ServeHTTP(wrw, r)

		username := ""
		if u, _, ok := r.BasicAuth(); ok {
			username = u
		}

		s.audit.Log(r.Context(), audit.Entry{
			Timestamp: time.Now(),
			Username:  username,
			Action:    "HTTP_REQUEST",
			Detail:    fmt.Sprintf("%s %s -> %d", r.Method, r.URL.Path, wrw.StatusCode()),
		})
	})
}
