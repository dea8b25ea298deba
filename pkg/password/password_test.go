package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := HashWithCost("correct horse battery staple", MinCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("correct horse battery stapler", hash))
	assert.False(t, Verify("", hash))
}

func TestHash_DistinctSalts(t *testing.T) {
	h1, err := HashWithCost("same-password", MinCost)
	require.NoError(t, err)
	h2, err := HashWithCost("same-password", MinCost)
	require.NoError(t, err)

	// Same plaintext, different salts, different hashes.
	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("same-password", h1))
	assert.True(t, Verify("same-password", h2))
}

func TestHash_EmptyPassword(t *testing.T) {
	_, err := Hash("")
	assert.Error(t, err)
}

func TestHashWithCost_OutOfRange(t *testing.T) {
	_, err := HashWithCost("password123", MaxCost+1)
	assert.Error(t, err)

	_, err = HashWithCost("password123", MinCost-1)
	assert.Error(t, err)
}

func TestVerify_GarbageHash(t *testing.T) {
	assert.False(t, Verify("anything", "not-a-bcrypt-hash"))
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashWithCost("password123", MinCost)
	require.NoError(t, err)

	needs, err := NeedsRehash(hash, MinCost+1)
	require.NoError(t, err)
	assert.True(t, needs)

	needs, err = NeedsRehash(hash, MinCost)
	require.NoError(t, err)
	assert.False(t, needs)

	_, err = NeedsRehash("garbage", DefaultCost)
	assert.Error(t, err)
}

func TestDefaultCost(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultCost, bcrypt.DefaultCost)
}
