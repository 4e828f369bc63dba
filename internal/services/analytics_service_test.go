package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/cache"
	"github.com/pipedesk/pipedesk/internal/models"
)

func newAnalytics(f *fixture) *AnalyticsService {
	return NewAnalyticsService(f.db, f.perms(), cache.NewAnalyticsCache(time.Minute))
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)
	f.createDeal(t, f.owner.ID, models.StatusWon, models.StageClosed, 300)
	f.createDeal(t, f.owner.ID, models.StatusWon, models.StageClosed, 500)
	f.createDeal(t, f.owner.ID, models.StatusLost, models.StageClosed, 200)

	report, err := svc.Summary(f.org.ID, models.RoleManager)

	require.NoError(t, err)
	assert.Equal(t, int64(4), report.TotalDeals)
	assert.True(t, report.WonAmount.Equal(decimal.NewFromInt(800)))

	// 2 won out of 3 closed.
	assert.InDelta(t, 66.67, report.WinRate, 0.01)
	assert.Equal(t, int64(4), report.NewDeals30d)

	// Every status appears in fixed order, zero-filled.
	require.Len(t, report.ByStatus, 4)
	assert.Equal(t, models.StatusNew, report.ByStatus[0].Status)
	assert.Equal(t, models.StatusInProgress, report.ByStatus[1].Status)
	assert.Equal(t, models.StatusWon, report.ByStatus[2].Status)
	assert.Equal(t, models.StatusLost, report.ByStatus[3].Status)
	assert.Equal(t, int64(0), report.ByStatus[1].Count)
	assert.True(t, report.ByStatus[1].TotalAmount.Equal(decimal.Zero))
}

func TestSummary_EmptyOrganization(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	report, err := svc.Summary(f.org.ID, models.RoleOwner)

	require.NoError(t, err)
	assert.Equal(t, int64(0), report.TotalDeals)
	assert.Equal(t, 0.0, report.WinRate)
	require.Len(t, report.ByStatus, 4)
}

func TestSummary_MemberForbidden(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	_, err := svc.Summary(f.org.ID, models.RoleMember)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestSummary_CachedUntilTTL(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	first, err := svc.Summary(f.org.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalDeals)

	// A write after the first read does not show up within the TTL.
	f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 200)

	second, err := svc.Summary(f.org.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.TotalDeals)
}

func TestSummary_CacheIsPerOrganization(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	org, user, contact := f.otherOrg(t)

	foreign := f.createDeal(t, user.ID, models.StatusNew, models.StageQualification, 100)
	require.NoError(t, f.db.Model(&foreign).Updates(map[string]interface{}{
		"organization_id": org.ID,
		"contact_id":      contact.ID,
	}).Error)

	mine, err := svc.Summary(f.org.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mine.TotalDeals)

	theirs, err := svc.Summary(org.ID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), theirs.TotalDeals)
}

func TestFunnel(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	// qualification: 4 active. proposal: 2 active, 1 lost. negotiation: 1
	// active. closed: 1 won.
	for range [4]struct{}{} {
		f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)
	}
	f.createDeal(t, f.owner.ID, models.StatusInProgress, models.StageProposal, 100)
	f.createDeal(t, f.owner.ID, models.StatusInProgress, models.StageProposal, 100)
	f.createDeal(t, f.owner.ID, models.StatusLost, models.StageProposal, 100)
	f.createDeal(t, f.owner.ID, models.StatusInProgress, models.StageNegotiation, 100)
	f.createDeal(t, f.owner.ID, models.StatusWon, models.StageClosed, 100)

	report, err := svc.Funnel(f.org.ID, models.RoleManager)

	require.NoError(t, err)
	require.Len(t, report.Stages, 4)

	qualification := report.Stages[0]
	assert.Equal(t, models.StageQualification, qualification.Stage)
	assert.Equal(t, int64(4), qualification.TotalCount)
	assert.Equal(t, int64(4), qualification.ActiveCount)
	assert.Equal(t, 100.0, qualification.Conversion)

	proposal := report.Stages[1]
	assert.Equal(t, int64(3), proposal.TotalCount)
	assert.Equal(t, int64(2), proposal.ActiveCount) // lost deals are not active
	assert.Equal(t, 50.0, proposal.Conversion)      // 2 of 4

	negotiation := report.Stages[2]
	assert.Equal(t, int64(1), negotiation.ActiveCount)
	assert.Equal(t, 50.0, negotiation.Conversion) // 1 of 2

	closed := report.Stages[3]
	assert.Equal(t, int64(1), closed.ActiveCount)
	assert.Equal(t, 100.0, closed.Conversion) // 1 of 1
}

func TestFunnel_EmptyStages(t *testing.T) {
	f := newFixture(t)
	svc := newAnalytics(f)

	f.createDeal(t, f.owner.ID, models.StatusNew, models.StageQualification, 100)

	report, err := svc.Funnel(f.org.ID, models.RoleManager)

	require.NoError(t, err)
	require.Len(t, report.Stages, 4)

	// First stage is 100% by definition; a stage after an empty one reads 0.
	assert.Equal(t, 100.0, report.Stages[0].Conversion)
	assert.Equal(t, 0.0, report.Stages[1].Conversion)
	assert.Equal(t, int64(0), report.Stages[1].TotalCount)
	assert.Empty(t, report.Stages[1].Cells)
}
