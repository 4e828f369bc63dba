package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

type DealFilter struct {
	OrganizationID uint
	OwnerID        *uint
	ContactID      *uint
	Statuses       []models.DealStatus
	Stage          *models.DealStage
	Search         string
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	SortBy         string // created_at, amount, title
	SortDesc       bool
	Limit          int
	Offset         int
}

var dealSortColumns = map[string]string{
	"created_at": "created_at",
	"amount":     "amount",
	"title":      "title",
}

func (r *DealRepository) Create(deal *models.Deal) error {
	return r.db.Create(deal).Error
}

func (r *DealRepository) GetByID(organizationID, id uint) (*models.Deal, error) {
	var deal models.Deal

	err := r.db.
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&deal).Error

	if err != nil {
		return nil, err
	}

	return &deal, nil
}

func (r *DealRepository) List(filter DealFilter) ([]models.Deal, int64, error) {
	query := r.db.Model(&models.Deal{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}

	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}

	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := dealSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var deals []models.Deal

	err := query.
		Order(column + " " + direction).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&deals).Error

	return deals, total, err
}

func (r *DealRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Deal{}).Where("id = ?", id).Updates(updates).Error
}

func (r *DealRepository) Delete(id uint) error {
	return r.db.Delete(&models.Deal{}, id).Error
}

// StatusAggregate is one summary row: deal count and amount totals for a
// single status within an organization.
type StatusAggregate struct {
	Status      models.DealStatus `json:"status"`
	Count       int64             `json:"count"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	AvgAmount   decimal.Decimal   `json:"avg_amount"`
}

func (r *DealRepository) SummaryByStatus(organizationID uint) ([]StatusAggregate, error) {
	var rows []StatusAggregate

	err := r.db.Model(&models.Deal{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount, COALESCE(AVG(amount), 0) AS avg_amount").
		Where("organization_id = ?", organizationID).
		Group("status").
		Scan(&rows).Error

	return rows, err
}

// StageStatusAggregate is one funnel cell: count and amount for a
// stage × status pair.
type StageStatusAggregate struct {
	Stage       models.DealStage  `json:"stage"`
	Status      models.DealStatus `json:"status"`
	Count       int64             `json:"count"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

func (r *DealRepository) FunnelCells(organizationID uint) ([]StageStatusAggregate, error) {
	var rows []StageStatusAggregate

	err := r.db.Model(&models.Deal{}).
		Select("stage, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("organization_id = ?", organizationID).
		Group("stage, status").
		Scan(&rows).Error

	return rows, err
}

func (r *DealRepository) CountCreatedSince(organizationID uint, since time.Time) (int64, error) {
	var count int64

	err := r.db.Model(&models.Deal{}).
		Where("organization_id = ? AND created_at >= ?", organizationID, since).
		Count(&count).Error

	return count, err
}
