package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/models"
)

func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db)

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	activity, err := svc.CreateComment(f.org.ID, f.member.ID, deal.ID, "  Looks promising  ")

	require.NoError(t, err)
	assert.Equal(t, models.ActivityComment, activity.Type)
	require.NotNil(t, activity.AuthorID)
	assert.Equal(t, f.member.ID, *activity.AuthorID)

	var payload models.CommentPayload
	require.NoError(t, json.Unmarshal(activity.Payload, &payload))
	assert.Equal(t, "Looks promising", payload.Text)

	_, err = svc.CreateComment(f.org.ID, f.member.ID, deal.ID, "   ")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestListActivities(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db)
	deals := NewDealService(f.db, f.perms())

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	_, err := svc.CreateComment(f.org.ID, f.owner.ID, deal.ID, "First")
	require.NoError(t, err)

	_, err = deals.Update(f.org.ID, f.owner.ID, models.RoleOwner, deal.ID, DealUpdate{
		Status: statusPtr(models.StatusInProgress),
	})
	require.NoError(t, err)

	all, total, err := svc.ListForDeal(f.org.ID, deal.ID, ActivityListOptions{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	commentType := models.ActivityComment
	comments, total, err := svc.ListForDeal(f.org.ID, deal.ID, ActivityListOptions{Type: &commentType, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, comments, 1)
	assert.Equal(t, models.ActivityComment, comments[0].Type)
}

func TestListActivities_InvalidTypeRejected(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db)

	deal := f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	bogus := models.ActivityType("bogus")
	_, _, err := svc.ListForDeal(f.org.ID, deal.ID, ActivityListOptions{Type: &bogus, Limit: 20})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestActivities_CrossOrganizationDealReadsAsNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db)

	org, user, contact := f.otherOrg(t)

	foreign := f.createDeal(t, user.ID, models.StatusNew, models.StageQualification, 100)
	require.NoError(t, f.db.Model(&foreign).Updates(map[string]interface{}{
		"organization_id": org.ID,
		"contact_id":      contact.ID,
	}).Error)

	_, _, err := svc.ListForDeal(f.org.ID, foreign.ID, ActivityListOptions{Limit: 20})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.CreateComment(f.org.ID, f.owner.ID, foreign.ID, "Hello?")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
