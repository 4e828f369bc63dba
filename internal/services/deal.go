package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/config"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
	"github.com/pipedesk/pipedesk/internal/pipeline"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type DealService struct {
	db      *gorm.DB
	perms   permissions.Evaluator
	machine pipeline.Machine
}

func NewDealService(db *gorm.DB, perms permissions.Evaluator) *DealService {
	return &DealService{
		db:      db,
		perms:   perms,
		machine: pipeline.NewMachine(perms),
	}
}

type DealListOptions struct {
	OwnerID   *uint
	ContactID *uint
	Statuses  []models.DealStatus
	Stage     *models.DealStage
	Search    string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	SortBy    string
	SortDesc  bool
	Limit     int
	Offset    int
}

func (s *DealService) List(organizationID, userID uint, role models.MemberRole, opts DealListOptions) ([]models.Deal, int64, error) {
	filter := repositories.DealFilter{
		OrganizationID: organizationID,
		OwnerID:        opts.OwnerID,
		ContactID:      opts.ContactID,
		Statuses:       opts.Statuses,
		Stage:          opts.Stage,
		Search:         opts.Search,
		MinAmount:      opts.MinAmount,
		MaxAmount:      opts.MaxAmount,
		SortBy:         opts.SortBy,
		SortDesc:       opts.SortDesc,
		Limit:          opts.Limit,
		Offset:         opts.Offset,
	}

	if ownerID, restricted := s.perms.OwnershipFilter(userID, role); restricted {
		filter.OwnerID = &ownerID
	}

	return repositories.NewDealRepository(s.db).List(filter)
}

type DealInput struct {
	ContactID uint
	Title     string
	Amount    decimal.Decimal
	Currency  string
}

// Create validates the contact reference and the currency, then creates the
// deal (status new, stage qualification) together with its "Deal created"
// system activity in one transaction. A contact outside the organization is
// reported the same way as a nonexistent one.
func (s *DealService) Create(organizationID, ownerID uint, input DealInput) (*models.Deal, error) {
	title := strings.TrimSpace(input.Title)

	if title == "" {
		return nil, apperrors.Validation("Deal title is required", "title")
	}

	if input.Amount.IsNegative() {
		return nil, apperrors.Validation("Deal amount cannot be negative", "amount")
	}

	if _, err := repositories.NewContactRepository(s.db).GetByID(organizationID, input.ContactID); err != nil {
		if _, ok := apperrors.As(notFoundOr(err, "Contact")); ok {
			return nil, apperrors.Validation("Contact does not belong to this organization", "contact_id")
		}
		return nil, err
	}

	currency, err := s.resolveCurrency(organizationID, input.Currency)

	if err != nil {
		return nil, err
	}

	deal := &models.Deal{
		OrganizationID: organizationID,
		ContactID:      input.ContactID,
		OwnerID:        ownerID,
		Title:          title,
		Amount:         input.Amount,
		Currency:       currency,
		Status:         models.StatusNew,
		Stage:          models.StageQualification,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewDealRepository(tx).Create(deal); err != nil {
			return err
		}

		return repositories.NewActivityRepository(tx).Record(
			deal.ID, nil, models.ActivitySystem,
			models.SystemPayload{Message: "Deal created"},
		)
	})

	if err != nil {
		return nil, err
	}

	return deal, nil
}

// resolveCurrency picks the explicit currency, then the organization
// default, then the global default, and validates against the whitelist.
func (s *DealService) resolveCurrency(organizationID uint, currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if currency == "" {
		org, err := repositories.NewOrganizationRepository(s.db).GetByID(organizationID)

		if err != nil {
			return "", notFoundOr(err, "Organization")
		}

		if org.DefaultCurrency != "" {
			currency = org.DefaultCurrency
		} else {
			currency = config.App.DefaultCurrency
		}
	}

	if !config.App.IsSupportedCurrency(currency) {
		return "", apperrors.Validation("Currency '"+currency+"' is not supported", "currency")
	}

	return currency, nil
}

func (s *DealService) Get(organizationID, id uint) (*models.Deal, error) {
	deal, err := repositories.NewDealRepository(s.db).GetByID(organizationID, id)

	if err != nil {
		return nil, notFoundOr(err, "Deal")
	}

	return deal, nil
}

type DealUpdate struct {
	Title    *string
	Amount   *decimal.Decimal
	Currency *string
	Status   *models.DealStatus
	Stage    *models.DealStage
}

// Update applies a partial update atomically: field changes, the state
// machine's resolved status/stage, and one activity per changed field all
// commit together or not at all. Rows have no version column; concurrent
// updates are last-write-wins, but every invariant is re-checked against
// the row read inside this transaction.
func (s *DealService) Update(organizationID, userID uint, role models.MemberRole, id uint, input DealUpdate) (*models.Deal, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.Validation("Invalid deal status", "status")
	}

	if input.Stage != nil && !input.Stage.Valid() {
		return nil, apperrors.Validation("Invalid deal stage", "stage")
	}

	var updated *models.Deal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		deals := repositories.NewDealRepository(tx)
		activities := repositories.NewActivityRepository(tx)

		deal, err := deals.GetByID(organizationID, id)

		if err != nil {
			return notFoundOr(err, "Deal")
		}

		if !s.perms.CanModifyResource(userID, deal.OwnerID, role) {
			return apperrors.Forbidden("Insufficient permissions")
		}

		updates := make(map[string]interface{})

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apperrors.Validation("Deal title is required", "title")
			}
			updates["title"] = title
		}

		finalAmount := deal.Amount

		if input.Amount != nil {
			if input.Amount.IsNegative() {
				return apperrors.Validation("Deal amount cannot be negative", "amount")
			}
			finalAmount = *input.Amount
			updates["amount"] = *input.Amount
		}

		if input.Currency != nil {
			currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
			if !config.App.IsSupportedCurrency(currency) {
				return apperrors.Validation("Currency '"+currency+"' is not supported", "currency")
			}
			updates["currency"] = currency
		}

		plan, err := s.machine.PlanUpdate(deal.Status, deal.Stage, input.Status, input.Stage, finalAmount, role)

		if err != nil {
			return err
		}

		if plan.StatusChanged {
			updates["status"] = plan.Status
		}

		if plan.StageChanged {
			updates["stage"] = plan.Stage
		}

		if len(updates) > 0 {
			if err := deals.Update(id, updates); err != nil {
				return err
			}
		}

		// Exactly one activity per changed field, inside the same
		// transaction as the deal mutation.
		if plan.StatusChanged {
			err := activities.Record(id, &userID, models.ActivityStatusChanged,
				models.StatusChangedPayload{From: deal.Status, To: plan.Status})
			if err != nil {
				return err
			}
		}

		if plan.StageChanged {
			err := activities.Record(id, &userID, models.ActivityStageChanged,
				models.StageChangedPayload{From: deal.Stage, To: plan.Stage})
			if err != nil {
				return err
			}
		}

		updated, err = deals.GetByID(organizationID, id)
		return err
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *DealService) Delete(organizationID, userID uint, role models.MemberRole, id uint) error {
	deal, err := s.Get(organizationID, id)

	if err != nil {
		return err
	}

	if !s.perms.CanModifyResource(userID, deal.OwnerID, role) {
		return apperrors.Forbidden("Insufficient permissions")
	}

	return repositories.NewDealRepository(s.db).Delete(id)
}
