package repositories

import (
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ContactFilter narrows contact lists. OwnerID covers both the explicit
// owner query parameter and the implicit member ownership filter.
type ContactFilter struct {
	OrganizationID uint
	OwnerID        *uint
	Search         string
	Limit          int
	Offset         int
}

func (r *ContactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// GetByID is always scoped to an organization, so a contact in another
// tenant is indistinguishable from a missing one.
func (r *ContactRepository) GetByID(organizationID, id uint) (*models.Contact, error) {
	var contact models.Contact

	err := r.db.
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&contact).Error

	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (r *ContactRepository) List(filter ContactFilter) ([]models.Contact, int64, error) {
	query := r.db.Model(&models.Contact{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []models.Contact

	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&contacts).Error

	return contacts, total, err
}

func (r *ContactRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Contact{}).Where("id = ?", id).Updates(updates).Error
}

func (r *ContactRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contact{}, id).Error
}

// HasDeals reports whether any deal still references the contact. Contact
// deletion is blocked while this is true.
func (r *ContactRepository) HasDeals(contactID uint) (bool, error) {
	var count int64

	err := r.db.Model(&models.Deal{}).
		Where("contact_id = ?", contactID).
		Count(&count).Error

	return count > 0, err
}
