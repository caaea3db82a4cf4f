package jwt

import (
	"testing"

	"competition-jury-system/config"

	"github.com/stretchr/testify/require"
)

func setSecret(t *testing.T, secret string, expire int64) {
	t.Helper()
	prev := config.Get()
	config.Set(&config.Config{JWT: config.JWT{AccessSecret: secret, AccessExpire: expire}})
	t.Cleanup(func() { config.Set(prev) })
}

func TestCreateAndParseToken(t *testing.T) {
	setSecret(t, "unit-test-secret-0123456789", 3600)

	token := CreateToken(Payload{ID: 7, Username: "juror", RoleID: 1})
	claims, ok := ParseToken(token)
	require.True(t, ok)
	require.Equal(t, uint(7), claims.ID)
	require.Equal(t, "juror", claims.Username)
	require.Equal(t, 1, claims.RoleID)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	setSecret(t, "unit-test-secret-0123456789", -10)
	expired := CreateToken(Payload{ID: 1})
	_, ok := ParseToken(expired)
	require.False(t, ok)

	setSecret(t, "another-secret-9876543210", 3600)
	foreign := CreateToken(Payload{ID: 1})
	setSecret(t, "unit-test-secret-0123456789", 3600)
	_, ok = ParseToken(foreign)
	require.False(t, ok)

	_, ok = ParseToken("not-a-token")
	require.False(t, ok)
}
