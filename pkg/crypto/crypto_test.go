package crypto

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	key, err := GenerateIdentity()
	require.NoError(t, err)
	s, err := NewSealer(key)
	require.NoError(t, err)
	return s
}

func TestNewSealer(t *testing.T) {
	t.Run("empty key", func(t *testing.T) {
		_, err := NewSealer("")
		assert.ErrorIs(t, err, ErrNoIdentity)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := NewSealer("not-an-age-key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing identity")
	})

	t.Run("generated key", func(t *testing.T) {
		s := newTestSealer(t)
		assert.True(t, strings.HasPrefix(s.Recipient(), "age1"))
	})
}

func TestSealer_SealOpen(t *testing.T) {
	s := newTestSealer(t)

	prompt := "What are my rights as a tenant if my landlord refuses repairs?"
	sealed, err := s.SealString(prompt)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "landlord")

	opened, err := s.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, prompt, opened)
}

func TestSealer_NonDeterministic(t *testing.T) {
	s := newTestSealer(t)

	a, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSealer_WrongIdentity(t *testing.T) {
	sealed, err := newTestSealer(t).SealString("privileged")
	require.NoError(t, err)

	_, err = newTestSealer(t).OpenString(sealed)
	assert.Error(t, err)
}

func TestSealer_OpenStringInvalidBase64(t *testing.T) {
	_, err := newTestSealer(t).OpenString("%%%")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding base64")
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("secret124", hash))
	assert.False(t, CheckPassword("secret123", ""))
	assert.False(t, CheckPassword("secret123", "not-a-bcrypt-hash"))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("secret123")
	require.NoError(t, err)
	b, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword("secret123", a))
	assert.True(t, CheckPassword("secret123", b))
}

func TestGenerateHexToken(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := GenerateHexToken(32)
		require.NoError(t, err)
		assert.Regexp(t, hexPattern, tok)
		assert.False(t, seen[tok], "token repeated")
		seen[tok] = true
	}
}

func TestGenerateRandomBytes_Zero(t *testing.T) {
	b, err := GenerateRandomBytes(0)
	require.NoError(t, err)
	assert.Empty(t, b)
}
