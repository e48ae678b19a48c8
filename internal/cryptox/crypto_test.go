package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, []byte("s3cret"), h)
	assert.True(t, CheckPassword(h, []byte("s3cret")))
	assert.False(t, CheckPassword(h, []byte("S3cret")))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword([]byte("same"), bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword([]byte("same"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_CostOutOfRangeFallsBack(t *testing.T) {
	h, err := HashPassword([]byte("pw"), 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost(h)
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	long := make([]byte, 100)
	_, err := HashPassword(long, bcrypt.MinCost)
	require.Error(t, err)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword([]byte("not-a-hash"), []byte("pw")))
}
