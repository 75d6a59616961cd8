package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("alice", "alice@example.com", "s3cret-pw")
	require.NoError(t, err)

	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.NotEqual(t, "s3cret-pw", u.Password)
	assert.True(t, u.CheckPassword("s3cret-pw"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserInvalid(t *testing.T) {
	_, err := CreateUser("al", "not-an-email", "s3cret-pw")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("first-pw"))
	old := u.Password

	require.NoError(t, u.SetPassword("second-pw"))

	assert.NotEqual(t, old, u.Password)
	assert.False(t, u.CheckPassword("first-pw"))
	assert.True(t, u.CheckPassword("second-pw"))
}

func TestGenerateAPIKey(t *testing.T) {
	u := &User{ID: 1}

	key, err := u.GenerateAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.True(t, len(key) > 10)
	assert.Equal(t, "pk_", key[:3])
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)

	// A second key replaces the first hash.
	key2, err := u.GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
	assert.Equal(t, HashAPIKey(key2), u.APIKeyHash)
}

func TestIsActive(t *testing.T) {
	assert.True(t, (&User{Status: STATUS_ACTIVE}).IsActive())
	assert.False(t, (&User{Status: STATUS_DISABLED}).IsActive())
	assert.False(t, (&User{Status: STATUS_INACTIVE}).IsActive())
}
