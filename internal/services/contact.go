package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type ContactService struct {
	db    *gorm.DB
	perms permissions.Evaluator
}

func NewContactService(db *gorm.DB, perms permissions.Evaluator) *ContactService {
	return &ContactService{db: db, perms: perms}
}

type ContactListOptions struct {
	OwnerID *uint
	Search  string
	Limit   int
	Offset  int
}

// List applies the implicit ownership filter for the member role: members
// only see their own contacts regardless of the owner_id parameter.
func (s *ContactService) List(organizationID, userID uint, role models.MemberRole, opts ContactListOptions) ([]models.Contact, int64, error) {
	filter := repositories.ContactFilter{
		OrganizationID: organizationID,
		OwnerID:        opts.OwnerID,
		Search:         opts.Search,
		Limit:          opts.Limit,
		Offset:         opts.Offset,
	}

	if ownerID, restricted := s.perms.OwnershipFilter(userID, role); restricted {
		filter.OwnerID = &ownerID
	}

	return repositories.NewContactRepository(s.db).List(filter)
}

type ContactInput struct {
	Name  string
	Email string
	Phone string
}

func (s *ContactService) Create(organizationID, ownerID uint, input ContactInput) (*models.Contact, error) {
	name := strings.TrimSpace(input.Name)

	if name == "" {
		return nil, apperrors.Validation("Contact name is required", "name")
	}

	contact := &models.Contact{
		OrganizationID: organizationID,
		OwnerID:        ownerID,
		Name:           name,
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
	}

	if err := repositories.NewContactRepository(s.db).Create(contact); err != nil {
		return nil, err
	}

	return contact, nil
}

func (s *ContactService) Get(organizationID, id uint) (*models.Contact, error) {
	contact, err := repositories.NewContactRepository(s.db).GetByID(organizationID, id)

	if err != nil {
		return nil, notFoundOr(err, "Contact")
	}

	return contact, nil
}

type ContactUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

func (s *ContactService) Update(organizationID, userID uint, role models.MemberRole, id uint, input ContactUpdate) (*models.Contact, error) {
	contact, err := s.Get(organizationID, id)

	if err != nil {
		return nil, err
	}

	if !s.perms.CanModifyResource(userID, contact.OwnerID, role) {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}

	updates := make(map[string]interface{})

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validation("Contact name is required", "name")
		}
		updates["name"] = name
	}

	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}

	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}

	if len(updates) == 0 {
		return contact, nil
	}

	if err := repositories.NewContactRepository(s.db).Update(id, updates); err != nil {
		return nil, err
	}

	return s.Get(organizationID, id)
}

// Delete refuses to remove a contact while any deal references it; the
// caller must delete or move the deals first.
func (s *ContactService) Delete(organizationID, userID uint, role models.MemberRole, id uint) error {
	contact, err := s.Get(organizationID, id)

	if err != nil {
		return err
	}

	if !s.perms.CanModifyResource(userID, contact.OwnerID, role) {
		return apperrors.Forbidden("Insufficient permissions")
	}

	repo := repositories.NewContactRepository(s.db)

	hasDeals, err := repo.HasDeals(id)

	if err != nil {
		return err
	}

	if hasDeals {
		return apperrors.Conflict("Contact has deals and cannot be deleted")
	}

	return repo.Delete(id)
}
