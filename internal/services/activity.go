package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

type ActivityListOptions struct {
	Type   *models.ActivityType
	Limit  int
	Offset int
}

func (s *ActivityService) ListForDeal(organizationID, dealID uint, opts ActivityListOptions) ([]models.Activity, int64, error) {
	if _, err := repositories.NewDealRepository(s.db).GetByID(organizationID, dealID); err != nil {
		return nil, 0, notFoundOr(err, "Deal")
	}

	if opts.Type != nil && !opts.Type.Valid() {
		return nil, 0, apperrors.Validation("Invalid activity type", "type")
	}

	return repositories.NewActivityRepository(s.db).ListByDeal(repositories.ActivityFilter{
		DealID: dealID,
		Type:   opts.Type,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// CreateComment is the only manual entry point to the timeline; every other
// activity type is written as a side effect of a mutation.
func (s *ActivityService) CreateComment(organizationID, userID, dealID uint, text string) (*models.Activity, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, apperrors.Validation("Comment text is required", "text")
	}

	if _, err := repositories.NewDealRepository(s.db).GetByID(organizationID, dealID); err != nil {
		return nil, notFoundOr(err, "Deal")
	}

	activity := &models.Activity{
		DealID:   dealID,
		AuthorID: &userID,
		Type:     models.ActivityComment,
		Payload:  models.MarshalPayload(models.CommentPayload{Text: text}),
	}

	if err := repositories.NewActivityRepository(s.db).Create(activity); err != nil {
		return nil, err
	}

	return activity, nil
}
