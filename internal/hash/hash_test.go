package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("strong_password")
	require.NoError(t, err)
	require.NotEqual(t, "strong_password", h)

	require.True(t, CheckPassword(h, "strong_password"))
	require.False(t, CheckPassword(h, "wrong_password"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("not a bcrypt hash", "strong_password"))
	require.False(t, CheckPassword("", "strong_password"))
}
