// internal/middleware/admin_jwt.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dca-oilgas/internal/util"
)

const (
	adminRole       = "admin"
	tokenIssuer     = "dca-oilgas"
	defaultTokenTTL = 24 * time.Hour
)

// AdminClaims klaim JWT untuk operator yang boleh upload data produksi.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type adminCtxKey struct{}

// AdminFromContext subject (username) dari token yang lolos AdminJWTAuth.
func AdminFromContext(ctx context.Context) string {
	s, _ := ctx.Value(adminCtxKey{}).(string)
	return s
}

func jwtSecret() ([]byte, error) {
	s := os.Getenv("ADMIN_JWT_SECRET")
	if s == "" {
		return nil, errors.New("admin jwt not configured")
	}
	return []byte(s), nil
}

// tokenTTL dari ADMIN_TOKEN_TTL (format time.ParseDuration), default 24 jam.
func tokenTTL() time.Duration {
	if v := os.Getenv("ADMIN_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultTokenTTL
}

// ParseAdminToken memvalidasi signature HMAC, expiry, issuer dan role.
func ParseAdminToken(raw string) (*AdminClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	claims := &AdminClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Role != adminRole {
		return nil, errForbidden
	}
	return claims, nil
}

var errForbidden = errors.New("forbidden")

func AdminJWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwtSecret(); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := ParseAdminToken(strings.TrimPrefix(auth, "Bearer "))
		switch {
		case errors.Is(err, errForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		case err != nil:
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), adminCtxKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GenerateAdminToken membuat JWT untuk user admin (TTL dari ADMIN_TOKEN_TTL).
func GenerateAdminToken(user string, now time.Time) (string, time.Time, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	exp := now.Add(tokenTTL())
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewID(),
			Issuer:    tokenIssuer,
			Subject:   user,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return signed, exp, err
}
