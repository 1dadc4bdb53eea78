// Package auth holds the process-wide authentication context: the
// persisted bearer token and the identity claims resolved from it.
package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// userIDClaims are the claim names the platform has historically used for
// the numeric user id, probed in order. Migration shim: the long-term
// contract is a single agreed claim name.
var userIDClaims = []string{"id", "userId", "user_id", "sub", "uid"}

// ResolveUserID extracts the numeric user id from a bearer token's
// payload. The signature is not verified here; the server is the
// authority on token validity, the client only needs the identity claim.
func ResolveUserID(token string) (int, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("failed to parse token payload: %w", err)
	}

	for _, name := range userIDClaims {
		raw, ok := claims[name]
		if !ok {
			continue
		}
		id, err := asInt(raw)
		if err != nil {
			continue
		}
		return id, nil
	}

	return 0, fmt.Errorf("no numeric user id claim found (tried %v)", userIDClaims)
}

// ResolveRole extracts the role claim, empty when absent
func ResolveRole(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func asInt(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("claim is not numeric: %T", raw)
	}
}
