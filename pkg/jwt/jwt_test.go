package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-test-key"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "admin", "inventario-ledger", 60)
	require.NoError(t, err)

	userID, role, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "admin", "x", 60)
	require.NoError(t, err)

	_, _, err = Parse("otra-clave", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "admin", "x", -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "x", 60)
	assert.Error(t, err)
	_, _, err = Parse("", "token")
	assert.Error(t, err)
}
