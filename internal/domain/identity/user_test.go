package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates regular user with hashed password", func(t *testing.T) {
		u, err := NewUser("Alice", "Alice@Example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.Name)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, RoleRegular, u.Role)
		assert.NotEqual(t, "password1", u.PasswordHash)
		assert.True(t, u.VerifyPassword("password1"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("", "a@example.com", "password1")
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("Alice", "not-an-email", "password1")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("Alice", "a@example.com", "short1")
		assert.Error(t, err)
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		_, err := NewUser("Alice", "a@example.com", "passwordonly")
		assert.Error(t, err)
	})
}

func TestNewAdminUser(t *testing.T) {
	u, err := NewAdminUser("Root", "root@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.IsAdmin())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "bob@example.com", NormalizeEmail("  Bob@Example.COM "))
}

func TestUserChangePassword(t *testing.T) {
	u, err := NewUser("Alice", "a@example.com", "password1")
	require.NoError(t, err)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := u.ChangePassword("wrong", "newpassword1")
		assert.Error(t, err)
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		require.NoError(t, u.ChangePassword("password1", "newpassword1"))
		assert.True(t, u.VerifyPassword("newpassword1"))
		assert.False(t, u.VerifyPassword("password1"))
	})

	t.Run("rejects invalid new password", func(t *testing.T) {
		assert.Error(t, u.ChangePassword("newpassword1", "x"))
	})
}

func TestUserPromoteToAdmin(t *testing.T) {
	u, err := NewUser("Alice", "a@example.com", "password1")
	require.NoError(t, err)

	require.NoError(t, u.PromoteToAdmin())
	assert.True(t, u.IsAdmin())
	assert.Error(t, u.PromoteToAdmin())
}

func TestUserRecordLoginSuccess(t *testing.T) {
	u, err := NewUser("Alice", "a@example.com", "password1")
	require.NoError(t, err)
	require.Nil(t, u.LastLoginAt)

	before := u.Version
	u.RecordLoginSuccess()
	assert.NotNil(t, u.LastLoginAt)
	assert.Equal(t, before+1, u.Version)
}
