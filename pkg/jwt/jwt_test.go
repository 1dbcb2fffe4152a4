package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", "meeting-automations", time.Hour)

	token, err := m.GenerateServiceToken("transcriber", ScopeExport)
	require.NoError(t, err)

	claims, err := m.ValidateServiceToken(token)
	require.NoError(t, err)
	assert.Equal(t, "transcriber", claims.Subject)
	assert.Equal(t, ScopeExport, claims.Scope)
}

func TestValidateServiceTokenRejects(t *testing.T) {
	m := NewManager("secret", "meeting-automations", time.Hour)

	other, err := NewManager("other-secret", "meeting-automations", time.Hour).GenerateServiceToken("x", ScopeExport)
	require.NoError(t, err)
	_, err = m.ValidateServiceToken(other)
	assert.Error(t, err)

	wrongIssuer, err := NewManager("secret", "someone-else", time.Hour).GenerateServiceToken("x", ScopeExport)
	require.NoError(t, err)
	_, err = m.ValidateServiceToken(wrongIssuer)
	assert.Error(t, err)

	expired, err := NewManager("secret", "meeting-automations", -time.Minute).GenerateServiceToken("x", ScopeExport)
	require.NoError(t, err)
	_, err = m.ValidateServiceToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = m.GenerateServiceToken("", ScopeExport)
	assert.Error(t, err)
}
