package psswd

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHash(t *testing.T) {
	hasher := PasswordHash{Cost: bcrypt.MinCost}
	password := gofakeit.Password(true, true, true, false, false, 12)

	hash, err := hasher.HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	cost, costErr := bcrypt.Cost([]byte(hash))
	require.NoError(t, costErr)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.True(t, hasher.ComparePassword(password, hash))
	assert.False(t, hasher.ComparePassword(password+"x", hash))
	assert.False(t, hasher.ComparePassword(password, "not a hash"))

	// соль делает хеши одного пароля разными.
	otherHash, err := hasher.HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, otherHash)
}

func TestPasswordHashDefaultCost(t *testing.T) {
	hash, err := PasswordHash{}.HashPassword("secret123")
	require.NoError(t, err)

	cost, costErr := bcrypt.Cost([]byte(hash))
	require.NoError(t, costErr)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
