package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, h.Verify("Secret123", hash))
	assert.False(t, h.Verify("Secret124", hash))
	assert.False(t, h.Verify("", hash))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("Secret123")
	require.NoError(t, err)
	second, err := h.Hash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("Secret123", first))
	assert.True(t, h.Verify("Secret123", second))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, stored := range []string{"", "plaintext", "$2a$10$short", "$9z$10$abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQ"} {
		assert.False(t, h.Verify("Secret123", stored), "stored=%q", stored)
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestBcryptHasher_MultibyteOverLimit(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	// 42 characters but 84 bytes in UTF-8.
	long := strings.Repeat("пароль", 7)
	_, err := h.Hash(long)
	assert.ErrorIs(t, err, domain.ErrValidation)

	fits := strings.Repeat("пароль", 6)
	_, err = h.Hash(fits)
	assert.NoError(t, err)
}
