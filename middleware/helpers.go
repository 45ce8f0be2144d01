package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
)

const jwtClaimUserID = "user_id"

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context or invalid type")
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	var userID int
	switch v := userIDClaim.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %f", jwtClaimUserID, v)
		}
		userID = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s' claim %q: %w", jwtClaimUserID, v, err)
		}
		userID = parsed
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: expected float64 or string, got %T", jwtClaimUserID, userIDClaim)
	}

	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

// WithUserID returns ctx carrying claims for userID, as Authenticate would
// leave them.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userContextKey, jwt.MapClaims{jwtClaimUserID: float64(userID)})
}
