package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/config"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type OrganizationService struct {
	db    *gorm.DB
	perms permissions.Evaluator
}

func NewOrganizationService(db *gorm.DB, perms permissions.Evaluator) *OrganizationService {
	return &OrganizationService{db: db, perms: perms}
}

func (s *OrganizationService) ListMine(userID uint) ([]models.OrganizationMember, error) {
	return repositories.NewOrganizationMemberRepository(s.db).ListByUser(userID)
}

// RequireMembership resolves the caller's role in an organization addressed
// by path. Non-members get the same not-found as a nonexistent organization,
// so tenants cannot be enumerated.
func (s *OrganizationService) RequireMembership(organizationID, userID uint) (models.MemberRole, error) {
	member, err := repositories.NewOrganizationMemberRepository(s.db).GetMembership(organizationID, userID)

	if err != nil {
		return "", notFoundOr(err, "Organization")
	}

	return member.Role, nil
}

func (s *OrganizationService) Get(organizationID uint) (*models.Organization, error) {
	org, err := repositories.NewOrganizationRepository(s.db).GetByID(organizationID)

	if err != nil {
		return nil, notFoundOr(err, "Organization")
	}

	return org, nil
}

type OrganizationUpdate struct {
	Name            *string
	DefaultCurrency *string
}

func (s *OrganizationService) Update(organizationID uint, role models.MemberRole, input OrganizationUpdate) (*models.Organization, error) {
	if !s.perms.CanUpdateOrganization(role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	updates := make(map[string]interface{})

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validation("Organization name cannot be empty", "name")
		}
		updates["name"] = name
	}

	if input.DefaultCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.DefaultCurrency))
		if !config.App.IsSupportedCurrency(currency) {
			return nil, apperrors.Validation("Currency '"+currency+"' is not supported", "default_currency")
		}
		updates["default_currency"] = currency
	}

	if len(updates) == 0 {
		return s.Get(organizationID)
	}

	repo := repositories.NewOrganizationRepository(s.db)

	if err := repo.Update(organizationID, updates); err != nil {
		return nil, err
	}

	return s.Get(organizationID)
}

// Delete tears down the whole tenant: the organization plus its memberships,
// contacts, deals, tasks and activities, in one transaction.
func (s *OrganizationService) Delete(organizationID uint, role models.MemberRole) error {
	if !s.perms.CanDeleteOrganization(role) {
		return apperrors.Forbidden("Only the organization owner can delete it")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return repositories.NewOrganizationRepository(tx).Delete(organizationID)
	})
}

func (s *OrganizationService) ListMembers(organizationID uint, role models.MemberRole) ([]models.OrganizationMember, error) {
	if !s.perms.CanViewAllMembers(role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	return repositories.NewOrganizationMemberRepository(s.db).ListByOrganization(organizationID)
}

// AddMember adds an existing user to the organization by email. Owners are
// created only at registration, never by invitation.
func (s *OrganizationService) AddMember(organizationID uint, actorRole models.MemberRole, email string, role models.MemberRole) (*models.OrganizationMember, error) {
	if !s.perms.CanManageMembers(actorRole) {
		return nil, apperrors.Forbidden("Only owners and admins can add members")
	}

	if !role.Valid() || role == models.RoleOwner {
		return nil, apperrors.Validation("Invalid member role", "role")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := repositories.NewUserRepository(s.db).GetByEmail(email)

	if err != nil {
		return nil, notFoundOr(err, "User")
	}

	members := repositories.NewOrganizationMemberRepository(s.db)

	if _, err := members.GetMembership(organizationID, user.ID); err == nil {
		return nil, apperrors.Conflict("User is already a member of this organization")
	}

	member := &models.OrganizationMember{
		OrganizationID: organizationID,
		UserID:         user.ID,
		Role:           role,
	}

	if err := members.Add(member); err != nil {
		return nil, err
	}

	member.User = *user
	return member, nil
}

func (s *OrganizationService) UpdateMemberRole(organizationID, actorUserID uint, actorRole models.MemberRole, targetUserID uint, newRole models.MemberRole) (*models.OrganizationMember, error) {
	if !newRole.Valid() {
		return nil, apperrors.Validation("Invalid member role", "role")
	}

	members := repositories.NewOrganizationMemberRepository(s.db)

	target, err := members.GetMembership(organizationID, targetUserID)

	if err != nil {
		return nil, notFoundOr(err, "Member")
	}

	if ok, reason := s.perms.CanChangeMemberRole(actorRole, target.Role, newRole); !ok {
		return nil, apperrors.Forbidden(reason)
	}

	if err := members.UpdateRole(organizationID, targetUserID, newRole); err != nil {
		return nil, err
	}

	target.Role = newRole
	return target, nil
}

func (s *OrganizationService) RemoveMember(organizationID, actorUserID uint, actorRole models.MemberRole, targetUserID uint) error {
	members := repositories.NewOrganizationMemberRepository(s.db)

	target, err := members.GetMembership(organizationID, targetUserID)

	if err != nil {
		return notFoundOr(err, "Member")
	}

	if !s.perms.CanRemoveMember(actorUserID, actorRole, targetUserID, target.Role) {
		return apperrors.Forbidden("Insufficient permissions")
	}

	return members.Remove(organizationID, targetUserID)
}
