package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := NewUser("Alice.Ops", "s3cretpass", AdminRoleOperator)

		require.NoError(t, err)
		assert.Equal(t, "alice.ops", u.Username)
		assert.Equal(t, UserStatusActive, u.Status)
		assert.NotEqual(t, "s3cretpass", u.PasswordHash)
		assert.True(t, u.VerifyPassword("s3cretpass"))
		assert.False(t, u.VerifyPassword("wrongpass1"))
		require.Len(t, u.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeUserCreated, u.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		for _, bad := range []string{"", "short1", "onlyletters", "12345678"} {
			_, err := NewUser("alice", bad, AdminRoleViewer)
			assert.Error(t, err, bad)
		}
	})

	t.Run("rejects invalid usernames", func(t *testing.T) {
		for _, bad := range []string{"", "ab", "has space", "bad!char"} {
			_, err := NewUser(bad, "s3cretpass", AdminRoleViewer)
			assert.Error(t, err, bad)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("alice", "s3cretpass", AdminRole("WIZARD"))

		require.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("requires the current password", func(t *testing.T) {
		u, err := NewUser("alice", "s3cretpass", AdminRoleViewer)
		require.NoError(t, err)

		require.Error(t, u.ChangePassword("wrongpass1", "newpass123"))
		require.NoError(t, u.ChangePassword("s3cretpass", "newpass123"))
		assert.True(t, u.VerifyPassword("newpass123"))
	})

	t.Run("admin reset skips the old password", func(t *testing.T) {
		u, err := NewUser("alice", "s3cretpass", AdminRoleViewer)
		require.NoError(t, err)

		require.NoError(t, u.SetPassword("newpass123"))

		assert.True(t, u.VerifyPassword("newpass123"))
	})
}

func TestUser_StatusTransitions(t *testing.T) {
	t.Run("disable then enable", func(t *testing.T) {
		u, err := NewUser("alice", "s3cretpass", AdminRoleViewer)
		require.NoError(t, err)

		require.NoError(t, u.Disable())
		assert.False(t, u.IsActive())

		require.Error(t, u.Disable())

		require.NoError(t, u.Enable())
		assert.True(t, u.IsActive())
	})
}

func TestUser_Permissions(t *testing.T) {
	cases := []struct {
		role        AdminRole
		manageUsers bool
		review      bool
	}{
		{AdminRoleAdmin, true, true},
		{AdminRoleFinance, false, true},
		{AdminRoleOperator, false, false},
		{AdminRoleViewer, false, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			u, err := NewUser("alice", "s3cretpass", tc.role)
			require.NoError(t, err)

			assert.Equal(t, tc.manageUsers, u.CanManageUsers())
			assert.Equal(t, tc.review, u.CanReviewCommissions())
		})
	}
}

func TestNewAuditLog(t *testing.T) {
	t.Run("records actor and snapshots", func(t *testing.T) {
		actor := uuid.New()

		entry, err := NewAuditLog(actor, "alice", AuditActionUpdate, "Stock", "abc-123")
		require.NoError(t, err)

		entry.WithBefore(map[string]int{"quantity": 10}).
			WithAfter(map[string]int{"quantity": 5}).
			WithIP("10.0.0.1").
			WithRemark("manual adjustment")

		assert.Equal(t, actor, entry.ActorID)
		assert.JSONEq(t, `{"quantity":10}`, entry.Before)
		assert.JSONEq(t, `{"quantity":5}`, entry.After)
		assert.Equal(t, "10.0.0.1", entry.IP)
	})

	t.Run("requires actor and entity type", func(t *testing.T) {
		_, err := NewAuditLog(uuid.Nil, "alice", AuditActionCreate, "Stock", "")
		require.Error(t, err)

		_, err = NewAuditLog(uuid.New(), "alice", AuditActionCreate, "", "")
		require.Error(t, err)
	})
}
