package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

// legacyTokenHeader is what older clients send instead of a bearer token.
const legacyTokenHeader = "x-auth-token"

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

// IssueToken signs an HS256 token carrying the user id.
func IssueToken(secret []byte, userID int, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		jwtClaimUserID: userID,
		"exp":          now.Add(TokenTTL).Unix(),
		"iat":          now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate rejects requests without a valid token and stores the
// token's claims in the request context.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				writeAuthError(w, http.StatusUnauthorized, "no token, authorization denied")
				return
			}

			claims, err := parseToken(secret, raw)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(legacyTokenHeader))
}

func parseToken(secret []byte, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\n\t\"error\": %q\n}\n", message)
}
