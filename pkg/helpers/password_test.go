package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rdOK", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "Passw0rdOK", hash)
	assert.True(t, CompareHashAndPassword(hash, "Passw0rdOK"))
	assert.False(t, CompareHashAndPassword(hash, "passw0rdok"))

	again, err := HashPassword("Passw0rdOK", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes differ")
}
