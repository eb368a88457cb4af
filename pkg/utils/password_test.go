package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, ComparePasswords(hash, "hunter22"))
	assert.Error(t, ComparePasswords(hash, "hunter23"))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
