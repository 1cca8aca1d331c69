package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common"
)

func TestJWT_RoundTrip(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	userID := common.NewUUID()

	token, expiresAt, err := provider.Generate(userID, "employer", time.Minute)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := provider.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, string(userID), claims.UserID)
	assert.Equal(t, "employer", claims.Role)
}

func TestJWT_TamperedSignatureRejected(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, _, err := provider.Generate(common.NewUUID(), "seeker", time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = provider.Parse(tampered)
	assert.Error(t, err)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, _, err := NewJWTProvider("secret-a").Generate(common.NewUUID(), "seeker", time.Minute)
	require.NoError(t, err)

	_, err = NewJWTProvider("secret-b").Parse(token)
	assert.Error(t, err)
}

func TestJWT_ExpiredRejected(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, _, err := provider.Generate(common.NewUUID(), "seeker", -time.Minute)
	require.NoError(t, err)

	_, err = provider.Parse(token)
	assert.Error(t, err)
}
