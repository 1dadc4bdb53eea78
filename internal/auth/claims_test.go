package auth_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pro4tech/assistant/internal/auth"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestResolveUserID(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   int
	}{
		{"id claim", jwt.MapClaims{"id": 7}, 7},
		{"userId claim", jwt.MapClaims{"userId": 8}, 8},
		{"user_id claim", jwt.MapClaims{"user_id": 9}, 9},
		{"sub claim", jwt.MapClaims{"sub": "10"}, 10},
		{"uid claim", jwt.MapClaims{"uid": 11}, 11},
		{"string id", jwt.MapClaims{"id": "12"}, 12},
		{"probe order prefers id", jwt.MapClaims{"id": 1, "sub": "2"}, 1},
		{"skips non-numeric candidates", jwt.MapClaims{"id": "not-a-number", "sub": "3"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ResolveUserID(signToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUserID_NoUsableClaim(t *testing.T) {
	_, err := auth.ResolveUserID(signToken(t, jwt.MapClaims{"email": "x@y.z"}))
	assert.Error(t, err)
}

func TestResolveUserID_NotAToken(t *testing.T) {
	_, err := auth.ResolveUserID("not-a-jwt")
	assert.Error(t, err)
}

func TestResolveRole(t *testing.T) {
	assert.Equal(t, "admin", auth.ResolveRole(signToken(t, jwt.MapClaims{"id": 1, "role": "admin"})))
	assert.Equal(t, "", auth.ResolveRole(signToken(t, jwt.MapClaims{"id": 1})))
	assert.Equal(t, "", auth.ResolveRole("garbage"))
}
