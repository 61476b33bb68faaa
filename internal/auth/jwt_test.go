package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "classcheck", "secret", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := Parse(pair.AccessToken, "secret", "classcheck")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", claims.Subject)
	assert.Equal(t, "teacher", claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "classcheck", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-secret", "classcheck")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "someone-else", "secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "classcheck")
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "classcheck", "secret", -time.Minute, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "classcheck")
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
