package repositories

import (
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

type OrganizationMemberRepository struct {
	db *gorm.DB
}

func NewOrganizationMemberRepository(db *gorm.DB) *OrganizationMemberRepository {
	return &OrganizationMemberRepository{db: db}
}

func (r *OrganizationMemberRepository) Add(member *models.OrganizationMember) error {
	return r.db.Create(member).Error
}

// GetMembership resolves the caller's membership in an organization. A
// gorm.ErrRecordNotFound here means fail closed: the user has no standing
// in that organization.
func (r *OrganizationMemberRepository) GetMembership(organizationID, userID uint) (*models.OrganizationMember, error) {
	var member models.OrganizationMember

	err := r.db.
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error

	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *OrganizationMemberRepository) ListByUser(userID uint) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember

	err := r.db.
		Preload("Organization").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error

	return members, err
}

func (r *OrganizationMemberRepository) ListByOrganization(organizationID uint) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember

	err := r.db.
		Preload("User").
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&members).Error

	return members, err
}

func (r *OrganizationMemberRepository) UpdateRole(organizationID, userID uint, role models.MemberRole) error {
	return r.db.
		Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Update("role", role).Error
}

// Remove deletes the row for real. A soft-deleted membership would keep
// holding the (organization_id, user_id) unique slot and block re-adding
// the user later.
func (r *OrganizationMemberRepository) Remove(organizationID, userID uint) error {
	return r.db.
		Unscoped().
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.OrganizationMember{}).Error
}
