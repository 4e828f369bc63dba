package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pipedesk/pipedesk/internal/models"
)

func TestOwnershipFilter(t *testing.T) {
	perms := NewEvaluator()

	ownerID, restricted := perms.OwnershipFilter(7, models.RoleMember)
	assert.True(t, restricted)
	assert.Equal(t, uint(7), ownerID)

	for _, role := range []models.MemberRole{models.RoleManager, models.RoleAdmin, models.RoleOwner} {
		_, restricted := perms.OwnershipFilter(7, role)
		assert.False(t, restricted, "role %s should see everything", role)
	}
}

func TestCanModifyResource(t *testing.T) {
	perms := NewEvaluator()

	assert.True(t, perms.CanModifyResource(1, 1, models.RoleMember))
	assert.False(t, perms.CanModifyResource(1, 2, models.RoleMember))
	assert.True(t, perms.CanModifyResource(1, 2, models.RoleManager))
	assert.True(t, perms.CanModifyResource(1, 2, models.RoleAdmin))
	assert.True(t, perms.CanModifyResource(1, 2, models.RoleOwner))
}

func TestCanMoveStageBackward(t *testing.T) {
	perms := NewEvaluator()

	assert.False(t, perms.CanMoveStageBackward(models.RoleMember))
	assert.False(t, perms.CanMoveStageBackward(models.RoleManager))
	assert.True(t, perms.CanMoveStageBackward(models.RoleAdmin))
	assert.True(t, perms.CanMoveStageBackward(models.RoleOwner))
}

func TestCanViewAnalytics(t *testing.T) {
	perms := NewEvaluator()

	assert.False(t, perms.CanViewAnalytics(models.RoleMember))
	assert.True(t, perms.CanViewAnalytics(models.RoleManager))
	assert.True(t, perms.CanViewAnalytics(models.RoleAdmin))
	assert.True(t, perms.CanViewAnalytics(models.RoleOwner))
}

func TestOrganizationManagement(t *testing.T) {
	perms := NewEvaluator()

	assert.False(t, perms.CanUpdateOrganization(models.RoleManager))
	assert.True(t, perms.CanUpdateOrganization(models.RoleAdmin))

	assert.False(t, perms.CanDeleteOrganization(models.RoleAdmin))
	assert.True(t, perms.CanDeleteOrganization(models.RoleOwner))

	assert.False(t, perms.CanManageMembers(models.RoleManager))
	assert.True(t, perms.CanManageMembers(models.RoleAdmin))
}

func TestCanChangeMemberRole(t *testing.T) {
	perms := NewEvaluator()

	ok, _ := perms.CanChangeMemberRole(models.RoleOwner, models.RoleMember, models.RoleManager)
	assert.True(t, ok)

	ok, reason := perms.CanChangeMemberRole(models.RoleAdmin, models.RoleMember, models.RoleManager)
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	ok, _ = perms.CanChangeMemberRole(models.RoleOwner, models.RoleOwner, models.RoleMember)
	assert.False(t, ok)

	ok, _ = perms.CanChangeMemberRole(models.RoleOwner, models.RoleMember, models.RoleOwner)
	assert.False(t, ok)
}

func TestCanRemoveMember(t *testing.T) {
	perms := NewEvaluator()

	// Admins remove non-owners.
	assert.True(t, perms.CanRemoveMember(1, models.RoleAdmin, 2, models.RoleMember))

	// Nobody removes the owner, not even themselves.
	assert.False(t, perms.CanRemoveMember(1, models.RoleOwner, 2, models.RoleOwner))
	assert.False(t, perms.CanRemoveMember(2, models.RoleOwner, 2, models.RoleOwner))

	// Members can leave but not remove others.
	assert.True(t, perms.CanRemoveMember(3, models.RoleMember, 3, models.RoleMember))
	assert.False(t, perms.CanRemoveMember(3, models.RoleMember, 4, models.RoleMember))
}
