package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordRoundTrip(t *testing.T) {
	h := HashPassword("secret123")
	assert.NotEmpty(t, h)
	assert.NotContains(t, h, "secret123")
	assert.True(t, strings.HasPrefix(h, "$2"))

	assert.True(t, CheckPassword("secret123", h))
	assert.False(t, CheckPassword("wrong", h))
	assert.False(t, CheckPassword("secret123", "not-a-hash"))
}

func TestHashPassword_Salted(t *testing.T) {
	assert.NotEqual(t, HashPassword("same"), HashPassword("same"))
}
