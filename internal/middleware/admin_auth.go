// internal/middleware/admin_auth.go
package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminNotConfigured = errors.New("admin auth not configured")
	ErrBadCredentials     = errors.New("invalid credentials")
)

// CheckAdminCredentials cocokkan dengan ADMIN_USER + ADMIN_PASS_HASH (bcrypt).
// Dipakai /login dan Basic auth.
func CheckAdminCredentials(user, pass string) error {
	envUser := os.Getenv("ADMIN_USER")
	envHash := os.Getenv("ADMIN_PASS_HASH")
	if envUser == "" || envHash == "" {
		return ErrAdminNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(envUser)) != 1 {
		return ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(envHash), []byte(pass)) != nil {
		return ErrBadCredentials
	}
	return nil
}

// AdminAuth menerima Bearer JWT (AdminJWTAuth) atau Basic auth, supaya
// script/curl bisa upload CSV tanpa login dulu.
func AdminAuth(next http.Handler) http.Handler {
	jwtNext := AdminJWTAuth(next)
	basicNext := AdminBasicAuth(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
			basicNext.ServeHTTP(w, r)
			return
		}
		jwtNext.ServeHTTP(w, r)
	})
}

func AdminBasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			http.Error(w, "auth required", http.StatusUnauthorized)
			return
		}
		switch err := CheckAdminCredentials(u, p); {
		case errors.Is(err, ErrAdminNotConfigured):
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		case err != nil:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminCtxKey{}, u)))
	})
}
