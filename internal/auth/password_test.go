package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, salt, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	assert.True(t, CheckPassword("s3cret-password", hash, salt))
	assert.False(t, CheckPassword("wrong-password", hash, salt))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	hash1, salt1, err := HashPassword("same-password")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestCheckPasswordBadEncoding(t *testing.T) {
	assert.False(t, CheckPassword("anything", "zz-not-hex", "also-not-hex"))
}
