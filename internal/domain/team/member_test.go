package team

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleLadder(t *testing.T) {
	t.Run("ranks ascend along the ladder", func(t *testing.T) {
		assert.Equal(t, 0, RoleCaptain.Rank())
		assert.Equal(t, 4, RoleAmbassador.Rank())
		assert.Equal(t, -1, Role("INTERN").Rank())
	})

	t.Run("next role stops at the top", func(t *testing.T) {
		assert.Equal(t, RoleSilverLeader, RoleCaptain.Next())
		assert.Equal(t, Role(""), RoleAmbassador.Next())
	})
}

func TestNewMember(t *testing.T) {
	t.Run("creates active captain with root path", func(t *testing.T) {
		m, err := NewMember(uuid.New(), "alice")

		require.NoError(t, err)
		assert.Equal(t, RoleCaptain, m.Role)
		assert.Equal(t, "/", m.Path)
		assert.Nil(t, m.ParentID)
		assert.True(t, m.IsActive())
		require.Len(t, m.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeMemberJoined, m.GetDomainEvents()[0].EventType())
	})

	t.Run("requires user and nickname", func(t *testing.T) {
		_, err := NewMember(uuid.Nil, "alice")
		require.Error(t, err)

		_, err = NewMember(uuid.New(), "")
		require.Error(t, err)
	})
}

func TestNewMemberUnder(t *testing.T) {
	t.Run("extends the sponsor path", func(t *testing.T) {
		parent, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)

		child, err := NewMemberUnder(uuid.New(), "bob", parent)

		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.Equal(t, "/"+parent.ID.String()+"/", child.Path)
		assert.Equal(t, 1, child.Depth())
	})

	t.Run("rejects inactive sponsor", func(t *testing.T) {
		parent, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)
		parent.Deactivate()

		_, err = NewMemberUnder(uuid.New(), "bob", parent)

		require.Error(t, err)
	})
}

func TestMember_DepthRelativeTo(t *testing.T) {
	root, err := NewMember(uuid.New(), "root")
	require.NoError(t, err)
	level1, err := NewMemberUnder(uuid.New(), "l1", root)
	require.NoError(t, err)
	level2, err := NewMemberUnder(uuid.New(), "l2", level1)
	require.NoError(t, err)
	level3, err := NewMemberUnder(uuid.New(), "l3", level2)
	require.NoError(t, err)

	assert.Equal(t, 1, level1.DepthRelativeTo(root))
	assert.Equal(t, 2, level2.DepthRelativeTo(root))
	assert.Equal(t, 3, level3.DepthRelativeTo(root))
	assert.Equal(t, 1, level2.DepthRelativeTo(level1))
	// root is not in level1's downline
	assert.Equal(t, 0, root.DepthRelativeTo(level1))
}

func TestMember_ChangeRole(t *testing.T) {
	t.Run("changes role and records event", func(t *testing.T) {
		m, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)
		m.ClearDomainEvents()

		err = m.ChangeRole(RoleGoldLeader)

		require.NoError(t, err)
		assert.Equal(t, RoleGoldLeader, m.Role)
		require.Len(t, m.GetDomainEvents(), 1)
		event, ok := m.GetDomainEvents()[0].(*MemberRoleChangedEvent)
		require.True(t, ok)
		assert.Equal(t, RoleCaptain, event.OldRole)
		assert.Equal(t, RoleGoldLeader, event.NewRole)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		m, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)
		m.ClearDomainEvents()
		version := m.GetVersion()

		require.NoError(t, m.ChangeRole(RoleCaptain))

		assert.Equal(t, version, m.GetVersion())
		assert.Empty(t, m.GetDomainEvents())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		m, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)

		require.Error(t, m.ChangeRole(Role("INTERN")))
	})
}

func TestMember_Promote(t *testing.T) {
	t.Run("moves one tier up", func(t *testing.T) {
		m, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)

		require.NoError(t, m.Promote())

		assert.Equal(t, RoleSilverLeader, m.Role)
	})

	t.Run("fails at the top tier", func(t *testing.T) {
		m, err := NewMember(uuid.New(), "alice")
		require.NoError(t, err)
		require.NoError(t, m.ChangeRole(RoleAmbassador))

		require.Error(t, m.Promote())
	})
}
