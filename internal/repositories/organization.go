package repositories

import (
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

func (r *OrganizationRepository) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization

	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}

	return &org, nil
}

func (r *OrganizationRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Organization{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes the organization together with its memberships, contacts,
// deals and the deals' tasks and activities. Child rows go for real so a
// deleted tenant leaves nothing resolvable behind; callers run this inside a
// transaction.
func (r *OrganizationRepository) Delete(id uint) error {
	var dealIDs []uint

	err := r.db.Model(&models.Deal{}).
		Where("organization_id = ?", id).
		Pluck("id", &dealIDs).Error

	if err != nil {
		return err
	}

	if len(dealIDs) > 0 {
		if err := r.db.Unscoped().Where("deal_id IN ?", dealIDs).Delete(&models.Activity{}).Error; err != nil {
			return err
		}

		if err := r.db.Unscoped().Where("deal_id IN ?", dealIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}
	}

	if err := r.db.Unscoped().Where("organization_id = ?", id).Delete(&models.Deal{}).Error; err != nil {
		return err
	}

	if err := r.db.Unscoped().Where("organization_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
		return err
	}

	if err := r.db.Unscoped().Where("organization_id = ?", id).Delete(&models.OrganizationMember{}).Error; err != nil {
		return err
	}

	return r.db.Delete(&models.Organization{}, id).Error
}
