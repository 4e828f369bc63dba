package repositories

import (
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

// ActivityRepository is append-only by construction: it exposes no update
// or delete methods.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type ActivityFilter struct {
	DealID uint
	Type   *models.ActivityType
	Limit  int
	Offset int
}

func (r *ActivityRepository) Create(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

func (r *ActivityRepository) Record(dealID uint, authorID *uint, activityType models.ActivityType, payload any) error {
	return r.Create(&models.Activity{
		DealID:   dealID,
		AuthorID: authorID,
		Type:     activityType,
		Payload:  models.MarshalPayload(payload),
	})
}

func (r *ActivityRepository) ListByDeal(filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.db.Model(&models.Activity{}).
		Where("deal_id = ?", filter.DealID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.Activity

	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&activities).Error

	return activities, total, err
}
