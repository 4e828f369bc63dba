// Package permissions is the role policy evaluated on every request. It is
// stateless: every check is a pure function of (role, user, resource owner).
package permissions

import "github.com/pipedesk/pipedesk/internal/models"

// Evaluator maps (role, action, ownership) to allow/deny. Injected into
// services at construction; holds no state.
type Evaluator struct{}

func NewEvaluator() Evaluator {
	return Evaluator{}
}

// CanViewAllResources reports whether the role sees the whole organization's
// contacts/deals/tasks. Plain members only see their own records.
func (Evaluator) CanViewAllResources(role models.MemberRole) bool {
	return role.AtLeast(models.RoleManager)
}

// OwnershipFilter returns the owner ID that list queries must be restricted
// to, or ok=false when no filter applies (manager and above).
func (e Evaluator) OwnershipFilter(userID uint, role models.MemberRole) (ownerID uint, ok bool) {
	if e.CanViewAllResources(role) {
		return 0, false
	}
	return userID, true
}

// CanModifyResource implements write-own for members: managers and above
// touch anything in the organization, members only resources they own.
func (Evaluator) CanModifyResource(userID, resourceOwnerID uint, role models.MemberRole) bool {
	if role.AtLeast(models.RoleManager) {
		return true
	}
	return userID == resourceOwnerID
}

// CanMoveStageBackward gates backward stage transitions. No exception for
// members on their own deals.
func (Evaluator) CanMoveStageBackward(role models.MemberRole) bool {
	return role.AtLeast(models.RoleAdmin)
}

func (Evaluator) CanViewAnalytics(role models.MemberRole) bool {
	return role.AtLeast(models.RoleManager)
}

func (Evaluator) CanUpdateOrganization(role models.MemberRole) bool {
	return role.AtLeast(models.RoleAdmin)
}

func (Evaluator) CanDeleteOrganization(role models.MemberRole) bool {
	return role == models.RoleOwner
}

func (Evaluator) CanManageMembers(role models.MemberRole) bool {
	return role.AtLeast(models.RoleAdmin)
}

func (Evaluator) CanViewAllMembers(role models.MemberRole) bool {
	return role.AtLeast(models.RoleManager)
}

// CanChangeMemberRole checks a role change of another member. Only owners
// change roles; the owner slot itself is immutable here (ownership transfer
// is a separate concern and not supported).
func (Evaluator) CanChangeMemberRole(actorRole, targetRole, newRole models.MemberRole) (bool, string) {
	if actorRole != models.RoleOwner {
		return false, "Only organization owners can change member roles"
	}

	if targetRole == models.RoleOwner {
		return false, "Cannot change the owner's role"
	}

	if newRole == models.RoleOwner {
		return false, "Cannot promote a member to owner"
	}

	return true, ""
}

// CanRemoveMember allows admins and above to remove non-owner members, and
// any member to remove themselves (leave the organization).
func (Evaluator) CanRemoveMember(actorUserID uint, actorRole models.MemberRole, targetUserID uint, targetRole models.MemberRole) bool {
	if targetRole == models.RoleOwner {
		return false
	}

	if actorUserID == targetUserID {
		return true
	}

	return actorRole.AtLeast(models.RoleAdmin)
}
