package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	assert.True(t, Verify("secret1", hash))
	assert.False(t, Verify("secret2", hash))
	assert.False(t, Verify("", hash))
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	c := HashToken("another-token")

	assert.Equal(t, a, b, "same input must hash identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "sha256 hex digest")
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("secret1"))
}
